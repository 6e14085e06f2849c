// Package agentresult implements the result-file convention used between
// agents: a worker writes its result as a TOON document under a shared
// directory and replies with a single "TOON: <path>" line, and the
// orchestrator resolves that line back into the decoded result.
package agentresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zai-speckit/toon/toon"
)

// DefaultDir is where result files are placed when no directory is given.
var DefaultDir = "/tmp/zai-speckit/toon"

const (
	// ReferencePrefix starts the reply line that points at a result file.
	ReferencePrefix = "TOON:"

	// Extension is the file extension of result files.
	Extension = ".toon"
)

// ErrNoReference is returned by Resolve when a reply has no TOON line.
var ErrNoReference = errors.New("agentresult: no TOON reference in reply")

// Result is a decoded result file. The well-known keys are lifted into
// fields; everything else stays available through Fields.
type Result struct {
	Status string
	Task   string
	Files  []string
	Notes  string
	Fields *toon.Object
}

// NewID returns a new time-ordered agent id.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// PathFor returns the result path for an agent id. An empty dir means
// DefaultDir.
func PathFor(dir, id string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, id+Extension)
}

// NewPath returns a result path for a freshly generated agent id.
func NewPath(dir string) (string, error) {
	id, err := NewID()
	if err != nil {
		return "", fmt.Errorf("generating agent id: %w", err)
	}
	return PathFor(dir, id), nil
}

// Reference formats the reply line pointing at path.
func Reference(path string) string {
	return ReferencePrefix + " " + path
}

// ParseReference finds the first "TOON: <path>" line in an agent reply.
func ParseReference(reply string) (string, bool) {
	for _, line := range strings.Split(reply, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), ReferencePrefix)
		if !ok {
			continue
		}
		if path := strings.TrimSpace(rest); path != "" {
			return path, true
		}
	}
	return "", false
}

// Parse decodes a result document.
func Parse(data []byte) (*Result, error) {
	fields, err := toon.DecodeObject(string(data))
	if err != nil {
		return nil, err
	}

	return &Result{
		Status: stringField(fields, "status"),
		Task:   stringField(fields, "task"),
		Files:  listField(fields, "files"),
		Notes:  stringField(fields, "notes"),
		Fields: fields,
	}, nil
}

// Load reads and decodes the result file at path.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result %s: %w", path, err)
	}

	result, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return result, nil
}

// Resolve loads the result file referenced by an agent reply.
func Resolve(reply string) (*Result, error) {
	path, ok := ParseReference(reply)
	if !ok {
		return nil, ErrNoReference
	}
	return Load(path)
}

// Write stores doc as a new result file under dir and returns its path.
func Write(dir string, doc []byte) (string, error) {
	path, err := NewPath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating result directory: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("writing result %s: %w", path, err)
	}
	return path, nil
}

func stringField(fields *toon.Object, key string) string {
	v, ok := fields.Get(key)
	if !ok {
		return ""
	}
	return formatValue(v)
}

// listField accepts either an array or a single scalar.
func listField(fields *toon.Object, key string) []string {
	v, ok := fields.Get(key)
	if !ok {
		return nil
	}

	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, formatValue(item))
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return []string{formatValue(val)}
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
