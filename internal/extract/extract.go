// Package extract recovers structured data from free-text model output.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

var fenceRe = regexp.MustCompile("```(?:json|JSON)?\\n?")

// Result is the tagged outcome of Try.
type Result struct {
	Value any
	OK    bool
}

// Try is Parse without the error, for callers that want to retry with a
// different prompt instead of failing.
func Try(text string) Result {
	v, err := Parse(text)
	if err != nil {
		return Result{}
	}
	return Result{Value: v, OK: true}
}

// Parse decodes text as JSON. Markdown fences are stripped first; if that
// fails, the span from the first '[' to the last ']' is tried. Objects are
// decoded as Object so their key order survives.
func Parse(text string) (any, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	if v, err := decode(cleaned); err == nil {
		return v, nil
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		if v, err := decode(text[start : end+1]); err == nil {
			return v, nil
		}
	}
	return nil, apperr.NewParse("could not recover valid JSON")
}

func decode(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty input")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return tok, nil
	}
}

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object with its keys in document order.
type Object []Field

// Get returns the value of the first field named key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Lookup returns the first of keys present in the object, compared
// case-insensitively.
func (o Object) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		for _, f := range o {
			if strings.EqualFold(f.Key, k) {
				return f.Value, true
			}
		}
	}
	return nil, false
}

// MarshalJSON keeps the key order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
