package toon

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Field is a single key/value entry of an Object.
type Field struct {
	Key   string
	Value interface{}
}

// Object is an ordered mapping produced for every block and tabular record.
// Iteration follows first insertion order; setting an existing key replaces
// its value in place.
type Object struct {
	fields []Field
	index  map[string]int
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set stores value under key. A key that is already present keeps its
// position and takes the new value.
func (o *Object) Set(key string, value interface{}) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = value
		return
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (interface{}, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.fields[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for _, f := range o.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Fields returns a copy of the entries in order.
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	out := make([]Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, value interface{}) bool) {
	if o == nil {
		return
	}
	for _, f := range o.fields {
		if !fn(f.Key, f.Value) {
			return
		}
	}
}

// Map returns the entries as a plain map, converting nested Objects
// (including those inside arrays) as well. Order is lost.
func (o *Object) Map() map[string]interface{} {
	out := make(map[string]interface{}, o.Len())
	o.Range(func(key string, value interface{}) bool {
		out[key] = plain(value)
		return true
	})
	return out
}

func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case *Object:
		return val.Map()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the Object as a JSON object in key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Equal reports whether both Objects hold equal values under the same keys
// in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i := 0; i < o.Len(); i++ {
		a, b := o.fields[i], other.fields[i]
		if a.Key != b.Key || !valueEqual(a.Value, b.Value) {
			return false
		}
	}
	return true
}

func valueEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		return ok && av.Equal(bv)
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
