// Package form models the editable forms the TUI submits and turns their
// contents into request bodies.
package form

import (
	"fmt"
	"os"

	"github.com/naveenspark/bidboard/pkg/client"
)

// Kind controls how a field is edited and harvested.
type Kind int

const (
	KindText Kind = iota
	KindPassword
	KindMultiline
	KindFile // value is a local path, sent only in multipart bodies
)

// Field is one named input.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	Value string
}

// Text returns a single-line text field.
func Text(name, label string) Field { return Field{Name: name, Label: label, Kind: KindText} }

// Password returns a masked field.
func Password(name, label string) Field { return Field{Name: name, Label: label, Kind: KindPassword} }

// Multiline returns a field that accepts newlines.
func Multiline(name, label string) Field { return Field{Name: name, Label: label, Kind: KindMultiline} }

// File returns a path field for multipart uploads.
func File(name, label string) Field { return Field{Name: name, Label: label, Kind: KindFile} }

// Form is an ordered list of fields. Order is the harvesting order.
type Form struct {
	Title  string
	Fields []Field
}

// New builds a form.
func New(title string, fields ...Field) Form {
	return Form{Title: title, Fields: append([]Field(nil), fields...)}
}

// Get returns the value of the named field, "" if absent.
func (f Form) Get(name string) string {
	for _, fl := range f.Fields {
		if fl.Name == name {
			return fl.Value
		}
	}
	return ""
}

// Set assigns the named field. Unknown names are ignored.
func (f *Form) Set(name, value string) {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			f.Fields[i].Value = value
			return
		}
	}
}

// Only returns a form holding just the named fields, in declared order.
func (f Form) Only(names ...string) Form {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	out := Form{Title: f.Title}
	for _, fl := range f.Fields {
		if keep[fl.Name] {
			out.Fields = append(out.Fields, fl)
		}
	}
	return out
}

// Reset empties every field.
func (f *Form) Reset() {
	for i := range f.Fields {
		f.Fields[i].Value = ""
	}
}

// Values collects non-empty fields into a flat mapping. File fields are
// skipped; they only travel in Multipart.
func (f Form) Values() map[string]string {
	return f.harvest(nil)
}

// ProviderValues is Values with "password" renamed to "pass", the key the
// service provider schema expects.
func (f Form) ProviderValues() map[string]string {
	return f.harvest(map[string]string{"password": "pass"})
}

func (f Form) harvest(rename map[string]string) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, fl := range f.Fields {
		if fl.Kind == KindFile || fl.Value == "" {
			continue
		}
		key := fl.Name
		if r, ok := rename[key]; ok {
			key = r
		}
		out[key] = fl.Value
	}
	return out
}

// Multipart builds a multipart body from every non-empty field, opening file
// fields from disk. Every file field must be filled in.
func (f Form) Multipart() (*client.Multipart, error) {
	mp := client.NewMultipart()
	for _, fl := range f.Fields {
		if fl.Kind != KindFile {
			if fl.Value != "" {
				mp.Field(fl.Name, fl.Value)
			}
			continue
		}
		if fl.Value == "" {
			return nil, fmt.Errorf("%s is required", fl.Label)
		}
		file, err := os.Open(fl.Value)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fl.Label, err)
		}
		mp.File(fl.Name, fl.Value, file)
		file.Close() //nolint:errcheck // read-only
	}
	return mp, nil
}
