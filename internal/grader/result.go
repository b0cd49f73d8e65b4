package grader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Result maps each selector to whether it matched at least one element.
// Keys are kept in insertion order, which Evaluate makes sorted.
//
// Design decision: Result keeps its own key slice instead of being a plain
// map[string]bool. encoding/json sorts map keys by bytes, while the report
// order comes from SortChecks.
type Result struct {
	keys    []string
	values  map[string]bool
	invalid []string
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return newResult(0)
}

// newResult returns an empty Result sized for n keys.
func newResult(n int) *Result {
	return &Result{
		keys:    make([]string, 0, n),
		values:  make(map[string]bool, n),
		invalid: make([]string, 0),
	}
}

// set stores the presence flag for selector. A repeated selector keeps its
// original position and takes the new value.
func (r *Result) set(selector string, present bool) {
	if _, ok := r.values[selector]; !ok {
		r.keys = append(r.keys, selector)
	}
	r.values[selector] = present
}

// Keys returns the selectors in output order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the presence flag for selector and whether it was evaluated.
func (r *Result) Get(selector string) (present, ok bool) {
	present, ok = r.values[selector]
	return present, ok
}

// Len returns the number of distinct selectors.
func (r *Result) Len() int {
	return len(r.keys)
}

// Passed returns how many selectors matched.
func (r *Result) Passed() int {
	return lo.CountBy(r.keys, func(k string) bool { return r.values[k] })
}

// Failed returns how many selectors did not match.
func (r *Result) Failed() int {
	return r.Len() - r.Passed()
}

// Invalid lists selectors skipped because of a syntax error.
// It is always empty unless Evaluate ran with WithLenient.
func (r *Result) Invalid() []string {
	return append([]string(nil), r.invalid...)
}

// Map returns a copy of the result as a plain map.
func (r *Result) Map() map[string]bool {
	return lo.Assign(r.values)
}

// MarshalJSON encodes the result as a JSON object with keys in order.
// Selectors are written without HTML escaping, so "ul > li" stays readable.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		// Encode appends a newline.
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')
		if r.values[key] {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	}
	out.WriteByte('}')

	return out.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of booleans, keeping key order.
func (r *Result) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("result must be a JSON object")
	}

	decoded := newResult(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var present bool
		if err := dec.Decode(&present); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		decoded.set(key, present)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = *decoded
	return nil
}
