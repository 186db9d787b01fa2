// Package expressions compiles Cucumber Expressions and regular expressions
// into matchers that bind step text to typed arguments.
//
// A ParameterTypeRegistry is populated once during setup. Expressions
// compiled against it are immutable; Match may be called concurrently and
// returns fresh Arguments each time. Argument values are transformed lazily
// by Argument.Value, and a failure there is confined to that Argument.
package expressions

import (
	"reflect"
	"regexp"
	"strings"
)

// Expression matches step text and returns its arguments.
type Expression interface {
	Source() string
	Regexp() *regexp.Regexp
	// Match returns nil when text does not match.
	Match(text string, typeHints ...reflect.Type) []*Argument
}

var (
	_ Expression = (*CucumberExpression)(nil)
	_ Expression = (*RegularExpression)(nil)
)

// NewExpression picks the expression kind from source: text anchored with
// ^ or $, or wrapped in slashes, is a regular expression; anything else is
// a Cucumber Expression.
func NewExpression(source string, registry *ParameterTypeRegistry) (Expression, error) {
	if IsRegularExpression(source) {
		pattern := source
		if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
			pattern = pattern[1 : len(pattern)-1]
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return NewRegularExpression(re, registry), nil
	}
	return NewCucumberExpression(source, registry)
}

// IsRegularExpression reports whether NewExpression treats source as a
// regular expression.
func IsRegularExpression(source string) bool {
	if strings.HasPrefix(source, "^") || strings.HasSuffix(source, "$") {
		return true
	}
	return len(source) >= 2 && strings.HasPrefix(source, "/") && strings.HasSuffix(source, "/")
}
