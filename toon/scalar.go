package toon

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	integerRegex = regexp.MustCompile(`^-?[0-9]+$`)
	floatRegex   = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
)

// classifier returns the typed value of token and true when it recognises it.
type classifier func(token string) (interface{}, bool)

// scalarClassifiers are tried in order; the first match decides the type.
var scalarClassifiers = []classifier{
	classifyEmpty,
	classifyQuoted,
	classifyBool,
	classifyInt,
	classifyFloat,
}

// parseScalar infers the value of a single trimmed token. Anything no
// classifier claims is returned unchanged as a string.
func parseScalar(token string) interface{} {
	for _, classify := range scalarClassifiers {
		if v, ok := classify(token); ok {
			return v
		}
	}
	return token
}

func classifyEmpty(token string) (interface{}, bool) {
	if token == "" {
		return "", true
	}
	return nil, false
}

// Quoted tokens are taken verbatim: no escapes, no further inference.
func classifyQuoted(token string) (interface{}, bool) {
	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		return token[1 : len(token)-1], true
	}
	return nil, false
}

func classifyBool(token string) (interface{}, bool) {
	switch {
	case strings.EqualFold(token, "true"):
		return true, true
	case strings.EqualFold(token, "false"):
		return false, true
	}
	return nil, false
}

func classifyInt(token string) (interface{}, bool) {
	if !integerRegex.MatchString(token) {
		return nil, false
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		// out of int64 range, left for the float classifier
		return nil, false
	}
	return n, true
}

func classifyFloat(token string) (interface{}, bool) {
	if !floatRegex.MatchString(token) {
		return nil, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// splitRow splits a comma separated row into typed values. Commas inside
// double quotes do not split, and the quotes stay on the token so quoted
// values keep their literal text. An empty row yields a single empty value;
// a trailing comma does not add an empty value.
func splitRow(row string) []interface{} {
	var values []interface{}
	inQuotes := false
	start := 0

	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if inQuotes {
				continue
			}
			values = append(values, parseScalar(strings.TrimSpace(row[start:i])))
			start = i + 1
		}
	}

	if last := row[start:]; last != "" || len(values) == 0 {
		values = append(values, parseScalar(strings.TrimSpace(last)))
	}
	return values
}
