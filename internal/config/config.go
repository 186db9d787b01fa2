package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"sort"

	"github.com/chriserin/stepx/expressions"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Starter is written by `stepx init` when no config exists yet.
const Starter = `# Custom parameter types available to step definitions.
locale: en
parameter_types: []
#  - name: color
#    regexps: ["red|green|blue"]
#    type: string
#    use_for_snippets: true
`

type Config struct {
	Locale         string          `yaml:"locale"`
	ParameterTypes []ParameterType `yaml:"parameter_types"`
}

// ParameterType describes one custom type. Type names the target type of
// the converted value; with CaptureGroups set every capture group is
// converted separately and the value is a []any.
type ParameterType struct {
	Name                 string   `yaml:"name"`
	Regexps              []string `yaml:"regexps"`
	Type                 string   `yaml:"type"`
	CaptureGroups        bool     `yaml:"capture_groups"`
	UseForSnippets       bool     `yaml:"use_for_snippets"`
	PreferForRegexpMatch bool     `yaml:"prefer_for_regexp_match"`
}

var targetTypes = map[string]reflect.Type{
	"":           reflect.TypeOf(""),
	"string":     reflect.TypeOf(""),
	"int":        reflect.TypeOf(0),
	"float":      reflect.TypeOf(0.0),
	"bool":       reflect.TypeOf(false),
	"bigint":     reflect.TypeOf(&big.Int{}),
	"bigdecimal": reflect.TypeOf(&big.Float{}),
}

// TypeNames lists the accepted values of the type field.
func TypeNames() []string {
	var names []string
	for name := range targetTypes {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load reads the config at path. A missing file yields the default config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{Locale: "en"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	return &cfg, nil
}

// Registry builds a parameter type registry holding the built-in types and
// every configured type.
func (c *Config) Registry() (*expressions.ParameterTypeRegistry, error) {
	tag := c.Locale
	if tag == "" {
		tag = "en"
	}
	locale, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	registry := expressions.NewParameterTypeRegistry(locale)
	for _, p := range c.ParameterTypes {
		pt, err := p.build()
		if err != nil {
			return nil, fmt.Errorf("parameter type {%s}: %w", p.Name, err)
		}
		if err := registry.DefineParameterType(pt); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (p ParameterType) build() (*expressions.ParameterType, error) {
	t, ok := targetTypes[p.Type]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", p.Type)
	}

	transformer := expressions.StringTransformer(func(s string) (any, error) {
		return expressions.ConvertString(s, t)
	})
	target := t
	if p.CaptureGroups {
		target = reflect.TypeOf([]any(nil))
		transformer = expressions.CaptureGroupTransformer(func(groups []*string) (any, error) {
			values := make([]any, len(groups))
			for i, g := range groups {
				if g == nil {
					continue
				}
				v, err := expressions.ConvertString(*g, t)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			return values, nil
		})
	}

	return expressions.NewParameterType(p.Name, p.Regexps, target, transformer, p.UseForSnippets, p.PreferForRegexpMatch)
}
