package expressions

import (
	"reflect"
	"regexp"
)

// RegularExpression is an Expression backed by a caller supplied regexp.
// Each top level capture group becomes one Argument.
type RegularExpression struct {
	regexp   *regexp.Regexp
	registry *ParameterTypeRegistry
	groups   []*groupNode
}

// NewRegularExpression wraps re. The registry is frozen.
func NewRegularExpression(re *regexp.Regexp, registry *ParameterTypeRegistry) *RegularExpression {
	registry.freeze()
	return &RegularExpression{
		regexp:   re,
		registry: registry,
		groups:   parseGroups(re.String()).topCaptures(),
	}
}

func (e *RegularExpression) Source() string {
	return e.regexp.String()
}

func (e *RegularExpression) Regexp() *regexp.Regexp {
	return e.regexp
}

// Match returns one Argument per top level capture group, or nil when text
// does not match.
//
// Without a type hint, a group's parameter type is the registered type whose
// regexp equals the group's source, falling back to an anonymous string.
// With a hint, the preferred type registered for that target type is bound
// anonymously to the group. Problems with a binding, such as a plain
// transformer over several capture groups, surface from Argument.Value.
func (e *RegularExpression) Match(text string, typeHints ...reflect.Type) []*Argument {
	indices := e.regexp.FindStringSubmatchIndex(text)
	if indices == nil {
		return nil
	}

	src := e.regexp.String()
	args := make([]*Argument, 0, len(e.groups))
	for i, g := range e.groups {
		var hint reflect.Type
		if i < len(typeHints) {
			hint = typeHints[i]
		}

		var values []*string
		for _, nested := range g.captures() {
			values = append(values, groupAt(text, indices, nested.index).Value)
		}
		whole := groupAt(text, indices, g.index)
		if len(values) == 0 {
			values = []*string{whole.Value}
		}

		args = append(args, &Argument{
			parameterType: e.parameterTypeFor(g.source(src), hint),
			group:         whole,
			values:        values,
		})
	}
	return args
}

func (e *RegularExpression) parameterTypeFor(source string, hint reflect.Type) *ParameterType {
	anonymous := e.registry.byName[""]
	if hint != nil {
		if pt := preferred(e.registry.byTargetType[hint]); pt != nil {
			return pt.anonymousFor(source)
		}
		return anonymous.withTargetType(hint).anonymousFor(source)
	}
	if pt := e.registry.LookupByRegexp(source); pt != nil {
		return pt
	}
	return anonymous.anonymousFor(source)
}
