package prompt

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// placeholderRegex matches {identifier} placeholders.
var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template is a named prompt with declared variables. It is immutable after
// construction and safe for concurrent use.
type Template struct {
	name      string
	text      string
	variables []string
}

// New creates a Template and checks that the placeholders found in text are
// exactly the declared variables.
func New(name, text string, variables []string) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidTemplate)
	}

	declared := uniqueSorted(variables)
	referenced := Placeholders(text)

	var undeclared, unused []string
	for _, v := range referenced {
		if _, found := slices.BinarySearch(declared, v); !found {
			undeclared = append(undeclared, v)
		}
	}
	for _, v := range declared {
		if _, found := slices.BinarySearch(referenced, v); !found {
			unused = append(unused, v)
		}
	}

	if len(undeclared) > 0 {
		return nil, fmt.Errorf("%w: %q references undeclared variables: %s",
			ErrInvalidTemplate, name, strings.Join(undeclared, ", "))
	}
	if len(unused) > 0 {
		return nil, fmt.Errorf("%w: %q declares variables it never uses: %s",
			ErrInvalidTemplate, name, strings.Join(unused, ", "))
	}

	return &Template{
		name:      name,
		text:      text,
		variables: declared,
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level templates.
func MustNew(name, text string, variables []string) *Template {
	t, err := New(name, text, variables)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Text returns the raw template text.
func (t *Template) Text() string { return t.text }

// Variables returns the sorted required variable names.
func (t *Template) Variables() []string {
	return slices.Clone(t.variables)
}

// Render substitutes every {name} placeholder with its value. Values not
// declared by the template are ignored. If any required variable is absent,
// a *TemplateError listing all of them is returned.
func (t *Template) Render(values map[string]string) (string, error) {
	var missing []string
	pairs := make([]string, 0, len(t.variables)*2)
	for _, v := range t.variables {
		value, ok := values[v]
		if !ok {
			missing = append(missing, v)
			continue
		}
		pairs = append(pairs, "{"+v+"}", value)
	}

	if len(missing) > 0 {
		return "", &TemplateError{Template: t.name, Missing: missing}
	}

	// strings.Replacer works in a single pass, so values that happen to
	// contain {placeholders} are left untouched.
	return strings.NewReplacer(pairs...).Replace(t.text), nil
}

// Placeholders returns the sorted, de-duplicated placeholder names in text.
func Placeholders(text string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return uniqueSorted(names)
}

func uniqueSorted(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return slices.Compact(out)
}
