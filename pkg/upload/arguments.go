package upload

import (
	"encoding/json"
	"net/url"
	"slices"
)

// File is the metadata of a completed file part.
type File struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	// DetectedType is sniffed from the leading bytes; empty for empty files.
	DetectedType string `json:"detected_type,omitempty"`
	// Reference locates the stored bytes: a filesystem path or an object id.
	Reference string `json:"reference"`
}

// Value is a single argument value: either raw field data or a file.
type Value struct {
	Data []byte
	File *File
}

// RawValue wraps a plain field value.
func RawValue(data []byte) Value {
	if data == nil {
		data = []byte{}
	}
	return Value{Data: data}
}

// FileValue wraps completed file metadata.
func FileValue(f File) Value {
	return Value{File: &f}
}

// IsFile reports whether the value describes a file.
func (v Value) IsFile() bool {
	return v.File != nil
}

// String returns the raw data as a string, or the file reference.
func (v Value) String() string {
	if v.File != nil {
		return v.File.Reference
	}
	return string(v.Data)
}

// MarshalJSON encodes a file as its descriptor object and a raw value as a
// JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.File != nil {
		return json.Marshal(v.File)
	}
	return json.Marshal(string(v.Data))
}

// Arguments is an append-only multimap of decoded fields.
// Values under one name keep their insertion order and repeated names never
// replace earlier values. Not safe for concurrent use; each request owns its own.
type Arguments struct {
	names  []string
	values map[string][]Value
}

// NewArguments returns an empty multimap.
func NewArguments() *Arguments {
	return &Arguments{values: make(map[string][]Value)}
}

// Add appends v to the list stored under name.
func (a *Arguments) Add(name string, v Value) {
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = append(a.values[name], v)
}

// Values returns a copy of all values stored under name.
func (a *Arguments) Values(name string) []Value {
	return slices.Clone(a.values[name])
}

// First returns the first value stored under name.
func (a *Arguments) First(name string) (Value, bool) {
	vs := a.values[name]
	if len(vs) == 0 {
		return Value{}, false
	}
	return vs[0], true
}

// Strings returns the plain field values stored under name, skipping files.
func (a *Arguments) Strings(name string) []string {
	var out []string
	for _, v := range a.values[name] {
		if !v.IsFile() {
			out = append(out, string(v.Data))
		}
	}
	return out
}

// Files returns the file values stored under name.
func (a *Arguments) Files(name string) []File {
	var out []File
	for _, v := range a.values[name] {
		if v.IsFile() {
			out = append(out, *v.File)
		}
	}
	return out
}

// Names returns field names in first-seen order.
func (a *Arguments) Names() []string {
	return slices.Clone(a.names)
}

// Len returns the number of distinct field names.
func (a *Arguments) Len() int {
	return len(a.names)
}

// Form returns the plain field values as url.Values, ready to be merged into
// a request's form.
func (a *Arguments) Form() url.Values {
	form := make(url.Values, len(a.names))
	for _, name := range a.names {
		if vs := a.Strings(name); len(vs) > 0 {
			form[name] = vs
		}
	}
	return form
}

// MarshalJSON encodes the arguments as an object mapping each name to the
// list of its values.
func (a *Arguments) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.values)
}
