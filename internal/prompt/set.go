package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Names of the built-in templates.
const (
	BaseMessage   = "base_message"
	EnrichMessage = "enrich_message"
)

//go:embed templates.yaml
var defaultTemplates []byte

// fileSchema is the on-disk YAML layout of a template set.
type fileSchema struct {
	Templates []templateSchema `yaml:"templates"`
}

type templateSchema struct {
	Name      string   `yaml:"name"`
	Variables []string `yaml:"variables"`
	Text      string   `yaml:"text"`
}

// Set is an immutable collection of templates indexed by name.
type Set struct {
	templates map[string]*Template
}

// NewSet builds a Set from templates. Duplicate names are rejected.
func NewSet(templates ...*Template) (*Set, error) {
	s := &Set{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if t == nil {
			return nil, fmt.Errorf("%w: nil template", ErrInvalidTemplate)
		}
		if _, exists := s.templates[t.Name()]; exists {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrInvalidTemplate, t.Name())
		}
		s.templates[t.Name()] = t
	}
	return s, nil
}

// Parse decodes a YAML template set.
func Parse(data []byte) (*Set, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: failed to parse template set: %v", ErrInvalidTemplate, err)
	}
	if len(schema.Templates) == 0 {
		return nil, fmt.Errorf("%w: template set is empty", ErrInvalidTemplate)
	}

	templates := make([]*Template, 0, len(schema.Templates))
	for _, ts := range schema.Templates {
		t, err := New(ts.Name, ts.Text, ts.Variables)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return NewSet(templates...)
}

// LoadFile reads a YAML template set from path.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt templates from %s: %v",
			ErrInvalidTemplate, path, err)
	}
	return Parse(data)
}

// Default returns the built-in card templates.
func Default() (*Set, error) {
	return Parse(defaultTemplates)
}

// Load returns the templates at path, or the built-in ones when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Get returns the template with the given name.
func (s *Set) Get(name string) (*Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return t, nil
}

// Names returns the sorted template names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
