package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Info is the file-level info block of an export.
// Keys keep their document order; values are decoded with json.Number
// so integers survive unchanged.
type Info struct {
	keys   []string
	values map[string]any
}

// NewInfo builds an Info from ordered keys and their values.
func NewInfo(keys []string, values map[string]any) Info {
	info := Info{values: make(map[string]any, len(keys))}
	for _, k := range keys {
		info.Set(k, values[k])
	}
	return info
}

// Set adds or replaces a key, appending new keys at the end.
func (i *Info) Set(key string, value any) {
	if i.values == nil {
		i.values = make(map[string]any)
	}
	if _, ok := i.values[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.values[key] = value
}

// Keys returns the info keys in document order.
func (i Info) Keys() []string {
	return append([]string(nil), i.keys...)
}

// Get returns the value stored under key.
func (i Info) Get(key string) (any, bool) {
	v, ok := i.values[key]
	return v, ok
}

// Len returns the number of keys.
func (i Info) Len() int { return len(i.keys) }

// ExportType returns info.exportType, or "" when absent or not a string.
func (i Info) ExportType() ExportType {
	v, _ := i.values["exportType"].(string)
	return ExportType(v)
}

// UnmarshalJSON decodes a JSON object, recording key order.
func (i *Info) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*i = Info{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("info: expected object, got %v", tok)
	}

	out := Info{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("info: expected key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("info.%s: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*i = out
	return nil
}

// MarshalJSON encodes the info block preserving key order.
func (i Info) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, k := range i.keys {
		if n > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(i.values[k])
		if err != nil {
			return nil, fmt.Errorf("info.%s: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
