package toon

import (
	"fmt"
	"strconv"
	"strings"
)

type decoder struct {
	maxDepth  int
	keepItems bool
}

func newDecoder(opts *DecodeOptions) *decoder {
	return &decoder{
		maxDepth:  opts.MaxDepth,
		keepItems: opts.KeepItemsWrapper,
	}
}

// sourceLine is one input line with its indentation resolved.
type sourceLine struct {
	text  string // content with surrounding whitespace removed
	depth int
}

func (l sourceLine) blank() bool {
	return l.text == ""
}

// arrayDecl is a parsed array key such as name[3] or name[3]{a,b}.
type arrayDecl struct {
	name   string
	size   int
	fields []string
}

// frame is an open block on the decode stack.
type frame struct {
	obj   *Object
	depth int
	key   string // key in the enclosing block
}

func (d *decoder) decode(data string) (interface{}, error) {
	obj, lines, err := d.decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if !d.keepItems {
		if items, ok := topLevelItems(obj, lines); ok {
			return items, nil
		}
	}
	return obj, nil
}

func (d *decoder) decodeDocument(data string) (*Object, []sourceLine, error) {
	if strings.TrimSpace(data) == "" {
		return NewObject(), nil, nil
	}

	lines := splitLines(data)
	obj, _, err := d.decodeBlock(lines, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	return obj, lines, nil
}

func splitLines(data string) []sourceLine {
	raw := strings.Split(data, "\n")
	lines := make([]sourceLine, len(raw))
	for i, line := range raw {
		lines[i] = sourceLine{
			text:  strings.TrimSpace(line),
			depth: getIndentDepth(line),
		}
	}
	return lines
}

// getIndentDepth returns the number of two-space indentation steps. Odd
// counts round down.
func getIndentDepth(line string) int {
	count := 0
	for count < len(line) && line[count] == ' ' {
		count++
	}
	return count / 2
}

// decodeBlock decodes the block starting at lines[start] whose entries sit at
// depth or deeper. Nested blocks are kept on an explicit stack rather than
// decoded recursively. It returns the block and the index of the first line
// that does not belong to it.
func (d *decoder) decodeBlock(lines []sourceLine, start, depth int) (*Object, int, error) {
	root := &frame{obj: NewObject(), depth: depth}
	stack := []*frame{root}

	i := start
	for i < len(lines) {
		top := stack[len(stack)-1]
		line := lines[i]

		if line.blank() {
			i++
			continue
		}

		if line.depth < top.depth {
			if len(stack) == 1 {
				break
			}
			// the line belongs to an enclosing block, close this one
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].obj.Set(top.key, top.obj)
			continue
		}

		key, value, ok := strings.Cut(line.text, ":")
		if !ok {
			i++
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.Contains(key, "["):
			decl, err := parseArrayKey(key)
			if err != nil {
				return nil, i, &SyntaxError{Line: i + 1, Key: key, Err: err}
			}
			arr, next := decodeArray(lines, i, value, decl, line.depth+1)
			top.obj.Set(decl.name, arr)
			i = next

		case value == "":
			next := nextContentLine(lines, i+1)
			if next < len(lines) && lines[next].depth > line.depth {
				if d.maxDepth > 0 && len(stack) > d.maxDepth {
					return nil, i, &SyntaxError{Line: i + 1, Key: key, Err: ErrMaxDepth}
				}
				stack = append(stack, &frame{obj: NewObject(), depth: line.depth + 1, key: key})
			} else {
				top.obj.Set(key, "")
			}
			i++

		default:
			top.obj.Set(key, parseScalar(value))
			i++
		}
	}

	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].obj.Set(top.key, top.obj)
	}
	return root.obj, i, nil
}

func nextContentLine(lines []sourceLine, from int) int {
	for from < len(lines) && lines[from].blank() {
		from++
	}
	return from
}

// parseArrayKey splits name[N]{f1,f2} into its parts. The field list is
// optional; empty field names are dropped.
func parseArrayKey(key string) (arrayDecl, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return arrayDecl{}, fmt.Errorf("%w: missing [", ErrMalformedArrayKey)
	}
	end := strings.IndexByte(key[open:], ']')
	if end < 0 {
		return arrayDecl{}, fmt.Errorf("%w: missing ]", ErrMalformedArrayKey)
	}
	end += open

	size, err := strconv.Atoi(strings.TrimSpace(key[open+1 : end]))
	if err != nil {
		return arrayDecl{}, fmt.Errorf("%w: size %q is not an integer", ErrMalformedArrayKey, key[open+1:end])
	}

	decl := arrayDecl{
		name: strings.TrimSpace(key[:open]),
		size: size,
	}

	if lb := strings.IndexByte(key, '{'); lb >= 0 {
		if rb := strings.IndexByte(key[lb:], '}'); rb >= 0 {
			for _, field := range strings.Split(key[lb+1:lb+rb], ",") {
				if field = strings.TrimSpace(field); field != "" {
					decl.fields = append(decl.fields, field)
				}
			}
		}
	}
	return decl, nil
}

// decodeArray decodes the array declared on lines[start]. Rows must sit at
// depth or deeper. The declared size only limits how many rows are read;
// the result may be shorter or, for multi-value rows, longer.
func decodeArray(lines []sourceLine, start int, inline string, decl arrayDecl, depth int) ([]interface{}, int) {
	if decl.size == 0 {
		return []interface{}{}, start + 1
	}

	if inline != "" {
		return splitRow(inline), start + 1
	}

	result := []interface{}{}
	i := start + 1
	for i < len(lines) && len(result) < decl.size {
		line := lines[i]
		if line.blank() {
			i++
			continue
		}
		if line.depth < depth {
			break
		}

		row := splitRow(line.text)
		if decl.fields != nil {
			result = append(result, newRecord(decl.fields, row))
		} else {
			result = append(result, row...)
		}
		i++
	}
	return result, i
}

// newRecord pairs row values with field names by position. Missing values
// become empty strings and surplus values are dropped.
func newRecord(fields []string, row []interface{}) *Object {
	rec := NewObject()
	for i, field := range fields {
		if i < len(row) {
			rec.Set(field, row[i])
		} else {
			rec.Set(field, "")
		}
	}
	return rec
}

// topLevelItems reports whether the document is a bare list written as a
// single items[N] array.
func topLevelItems(obj *Object, lines []sourceLine) ([]interface{}, bool) {
	if obj.Len() != 1 {
		return nil, false
	}
	v, ok := obj.Get("items")
	if !ok {
		return nil, false
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	for _, line := range lines {
		if line.blank() {
			continue
		}
		return items, strings.HasPrefix(line.text, "items[")
	}
	return nil, false
}
