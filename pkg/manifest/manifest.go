// Package manifest reads and writes the manifest describing the fields of a content folder.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
)

const (
	// FileName is the name of the manifest inside a content folder.
	FileName = "manifest.json"
	// DirectivePrefix marks a value stored in a sibling file.
	DirectivePrefix = "@include:"
)

// Manifest maps field names to values, keeping the order of the source file.
type Manifest struct {
	keys   []string
	values map[string]string
}

// Parse decodes a manifest. Comments and trailing commas are tolerated;
// the top level must be an object of string values.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidManifest)
	}

	m := &Manifest{values: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		key := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: value of %q is not a string", ErrInvalidManifest, key)
		}
		if _, dup := m.values[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidManifest, key)
		}
		if target, ok := directiveTarget(value); ok && !isSiblingName(target) {
			return nil, fmt.Errorf("%w: %q does not include a sibling file", ErrInvalidManifest, key)
		}

		m.keys = append(m.keys, key)
		m.values[key] = value
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidManifest)
	}

	return m, nil
}

// Keys returns the field names in file order.
func (m *Manifest) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the raw value of key.
func (m *Manifest) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set replaces the value of an existing key. New keys are refused.
func (m *Manifest) Set(key, value string) error {
	if _, ok := m.values[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	m.values[key] = value
	return nil
}

// Directive returns the sibling file name key includes, if any.
func (m *Manifest) Directive(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	return directiveTarget(v)
}

// Marshal encodes the manifest with two-space indentation and a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if len(m.keys) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, key := range m.keys {
		k, err := encodeString(key)
		if err != nil {
			return nil, err
		}
		v, err := encodeString(m.values[key])
		if err != nil {
			return nil, err
		}

		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		if i < len(m.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// IsContentFile reports whether p is the manifest of a folder under contentFolder.
func IsContentFile(contentFolder, p string) bool {
	folder := strings.Trim(contentFolder, "/")
	p = strings.TrimPrefix(p, "/")
	if folder != "" && !strings.HasPrefix(p, folder+"/") {
		return false
	}
	return path.Base(p) == FileName
}

func directiveTarget(value string) (string, bool) {
	target, ok := strings.CutPrefix(value, DirectivePrefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(target), true
}

func isSiblingName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
