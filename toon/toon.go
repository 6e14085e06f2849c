// Package toon decodes TOON (Token-Oriented Object Notation) documents.
// TOON is a line-oriented, indentation-based text format for nested records,
// scalars and arrays, including tabular arrays that name their fields once in
// the key instead of on every row.
//
// Documents decode into *Object (an ordered mapping), []interface{} and the
// scalars string, bool, int64 and float64. Decoding is read-only; there is no
// encoder.
package toon

import (
	"encoding/json"
	"io"
)

// DecodeOptions configures TOON decoding behavior.
type DecodeOptions struct {
	MaxDepth         int  // Maximum nested block depth, 0 for no limit (default: 0)
	KeepItemsWrapper bool // Return {items: [...]} instead of the bare list (default: false)
}

// Decode parses TOON format and returns the decoded value. The result is an
// *Object, or a []interface{} when the whole document is a single items[N]
// array.
func Decode(data string) (interface{}, error) {
	return DecodeWithOptions(data, nil)
}

// DecodeWithOptions parses TOON format with custom options.
func DecodeWithOptions(data string, opts *DecodeOptions) (interface{}, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	decoder := newDecoder(opts)
	return decoder.decode(data)
}

// DecodeObject parses TOON format and always returns the top level mapping,
// even for a document holding only an items array.
func DecodeObject(data string) (*Object, error) {
	decoder := newDecoder(&DecodeOptions{KeepItemsWrapper: true})
	obj, _, err := decoder.decodeDocument(data)
	return obj, err
}

// Unmarshal decodes TOON data and stores the result in the value pointed to
// by v. Fields are matched the way encoding/json matches them, so struct tags
// like `json:"status"` apply.
func Unmarshal(data []byte, v interface{}) error {
	decoded, err := Decode(string(data))
	if err != nil {
		return err
	}

	jsonBytes, err := json.Marshal(decoded)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, v)
}

// Decoder reads a TOON document from an input stream.
type Decoder struct {
	r    io.Reader
	opts *DecodeOptions
}

// NewDecoder returns a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// SetOptions sets the options used by Decode.
func (dec *Decoder) SetOptions(opts *DecodeOptions) {
	dec.opts = opts
}

// Decode reads all remaining input and decodes it. The document is not
// parsed incrementally.
func (dec *Decoder) Decode() (interface{}, error) {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return nil, err
	}
	return DecodeWithOptions(string(data), dec.opts)
}
