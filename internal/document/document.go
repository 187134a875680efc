// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package document defines the list documents that the command line tools compare and how they are
// read from and written to YAML and TOML files.
//
// A document is either flat, a list of items, or sectioned, a list of sections that each hold a
// list of items:
//
//	sections:
//	  - id: fruit
//	    header: Fruit
//	    items:
//	      - id: apple
//	        content: red
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"znkr.io/listdiff"
)

// Document is a flat or sectioned list.
type Document struct {
	Sections []Section `yaml:"sections,omitempty" toml:"sections,omitempty"`
	Items    []Item    `yaml:"items,omitempty" toml:"items,omitempty"`
}

// Sectioned reports if the document is a list of sections.
func (d Document) Sectioned() bool { return len(d.Sections) > 0 }

// Validate returns an error if the document mixes sections and top level items.
func (d Document) Validate() error {
	if len(d.Sections) > 0 && len(d.Items) > 0 {
		return errors.New("document has both sections and items")
	}
	return nil
}

// Section is a list of items with a header. Sections are identified by ID, two sections with the
// same ID are equal if their headers are equal.
type Section struct {
	ID     string `yaml:"id" toml:"id"`
	Header string `yaml:"header,omitempty" toml:"header,omitempty"`
	Items  []Item `yaml:"items,omitempty" toml:"items,omitempty"`
}

var _ listdiff.DifferentiableSection[string, Section, Item] = Section{}

func (s Section) DifferenceIdentifier() string      { return s.ID }
func (s Section) IsContentEqual(other Section) bool { return s.Header == other.Header }
func (s Section) Elements() []Item                  { return s.Items }
func (s Section) WithElements(items []Item) Section { s.Items = items; return s }

func (s Section) String() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.String()
	}
	return fmt.Sprintf("%s %q [%s]", s.ID, s.Header, strings.Join(parts, ", "))
}

// Lines returns the section as multiple lines: the ID and header followed by one indented line
// per item.
func (s Section) Lines() []string {
	lines := make([]string, 0, len(s.Items)+1)
	lines = append(lines, fmt.Sprintf("[%s] %s", s.ID, s.Header))
	for _, item := range s.Items {
		lines = append(lines, "  "+item.String())
	}
	return lines
}

// Item is a single entry of a list. Items are identified by ID, two items with the same ID are
// equal if their content is equal.
type Item struct {
	ID      string `yaml:"id" toml:"id"`
	Content string `yaml:"content,omitempty" toml:"content,omitempty"`
}

var _ listdiff.Differentiable[string, Item] = Item{}

func (i Item) DifferenceIdentifier() string   { return i.ID }
func (i Item) IsContentEqual(other Item) bool { return i.Content == other.Content }

func (i Item) String() string { return fmt.Sprintf("%s=%q", i.ID, i.Content) }

// Format is a file format for documents.
type Format int

const (
	YAML Format = iota // YAML, also used for JSON.
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf returns the format for a file name based on its extension.
func FormatOf(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml", ".json":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q", ext)
	}
}

// Load reads the document in file name.
func Load(name string) (Document, error) {
	f, err := FormatOf(name)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := Parse(data, f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// Parse decodes a document. Unknown fields are an error.
func Parse(data []byte, f Format) (Document, error) {
	var doc Document
	switch f {
	case YAML:
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
			return Document{}, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported format %v", f)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Marshal encodes a document.
func Marshal(doc Document, f Format) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(doc)
	case TOML:
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format %v", f)
	}
}
