package toon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedArrayKey is reported for an array key with no closing
	// bracket or a size that is not a base-10 integer.
	ErrMalformedArrayKey = errors.New("toon: malformed array key")

	// ErrMaxDepth is reported when nesting exceeds DecodeOptions.MaxDepth.
	ErrMaxDepth = errors.New("toon: maximum nesting depth exceeded")
)

// SyntaxError describes a structural fault in a document. Err is one of the
// package's sentinel errors, so callers can match with errors.Is.
type SyntaxError struct {
	Line int // 1-based line number
	Key  string
	Err  error
}

func (e *SyntaxError) Error() string {
	msg := strings.TrimPrefix(e.Err.Error(), "toon: ")
	if e.Key != "" {
		return fmt.Sprintf("toon: line %d: key %q: %s", e.Line, e.Key, msg)
	}
	return fmt.Sprintf("toon: line %d: %s", e.Line, msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
