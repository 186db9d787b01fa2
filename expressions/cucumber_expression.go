package expressions

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// layoutEntry records where one parameter occurrence sits in the compiled
// regexp: the capture number of its wrapping group, and how many capture
// groups each of its type's regexp alternatives declares. The nested
// groups of all alternatives follow the wrapping group in order.
type layoutEntry struct {
	parameterType *ParameterType
	group         int
	altGroups     []int
}

// ownGroupCount is the largest number of capture groups any one alternative
// of the occurrence's parameter type declares.
func (e layoutEntry) ownGroupCount() int {
	most := 0
	for _, n := range e.altGroups {
		most = max(most, n)
	}
	return most
}

// span is the number of capture groups the occurrence occupies in the
// flat match array, its wrapping group included.
func (e layoutEntry) span() int {
	n := 1
	for _, g := range e.altGroups {
		n += g
	}
	return n
}

// CucumberExpression is an Expression compiled from the Cucumber Expression
// syntax. It is immutable and safe for concurrent use.
type CucumberExpression struct {
	source   string
	regexp   *regexp.Regexp
	layout   []layoutEntry
	registry *ParameterTypeRegistry
}

// NewCucumberExpression parses and compiles source against registry.
// Parameter names are resolved immediately; the registry is frozen once
// compilation succeeds.
func NewCucumberExpression(source string, registry *ParameterTypeRegistry) (*CucumberExpression, error) {
	ast, err := parse(source)
	if err != nil {
		return nil, err
	}

	c := &compiler{registry: registry}
	body, err := c.compile(ast)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile("^" + body + "$")
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", source, err)
	}
	if re.NumSubexp() != c.groups {
		return nil, fmt.Errorf("compiling %q: expected %d capture groups, regexp declares %d", source, c.groups, re.NumSubexp())
	}
	registry.freeze()

	return &CucumberExpression{
		source:   source,
		regexp:   re,
		layout:   c.layout,
		registry: registry,
	}, nil
}

func (e *CucumberExpression) Source() string {
	return e.source
}

func (e *CucumberExpression) Regexp() *regexp.Regexp {
	return e.regexp
}

// ParameterTypes returns the parameter type of each occurrence, left to right.
func (e *CucumberExpression) ParameterTypes() []*ParameterType {
	out := make([]*ParameterType, len(e.layout))
	for i, entry := range e.layout {
		out[i] = entry.parameterType
	}
	return out
}

// Match returns one Argument per parameter occurrence, or nil when text does
// not match. A type hint at an anonymous {} position converts its text to
// that type. Values are not transformed until Argument.Value is called.
func (e *CucumberExpression) Match(text string, typeHints ...reflect.Type) []*Argument {
	indices := e.regexp.FindStringSubmatchIndex(text)
	if indices == nil {
		return nil
	}

	args := make([]*Argument, 0, len(e.layout))
	for i, entry := range e.layout {
		pt := entry.parameterType
		if pt.anonymous && i < len(typeHints) && typeHints[i] != nil {
			pt = pt.withTargetType(typeHints[i])
		}
		args = append(args, &Argument{
			parameterType: pt,
			group:         groupAt(text, indices, entry.group),
			values:        entry.values(text, indices),
		})
	}
	return args
}

// values slices the occurrence's own groups out of the flat match. Only the
// alternative that took part in the match contributes; its values are padded
// to ownGroupCount.
func (e layoutEntry) values(text string, indices []int) []*string {
	own := e.ownGroupCount()
	if own == 0 {
		return []*string{groupAt(text, indices, e.group).Value}
	}

	var chosen []*string
	next := e.group + 1
	for _, n := range e.altGroups {
		var vals []*string
		participated := false
		for g := next; g < next+n; g++ {
			v := groupAt(text, indices, g).Value
			participated = participated || v != nil
			vals = append(vals, v)
		}
		next += n
		if participated && chosen == nil {
			chosen = vals
		}
	}
	out := make([]*string, own)
	copy(out, chosen)
	return out
}

type compiler struct {
	registry *ParameterTypeRegistry
	layout   []layoutEntry
	groups   int
}

func (c *compiler) compile(n node) (string, error) {
	switch n.typ {
	case textNode:
		return regexp.QuoteMeta(n.text), nil
	case optionalNode:
		body, err := c.compileAll(n.nodes)
		if err != nil {
			return "", err
		}
		return "(?:" + body + ")?", nil
	case alternationNode:
		alts := make([]string, 0, len(n.nodes))
		for _, alt := range n.nodes {
			body, err := c.compileAll(alt.nodes)
			if err != nil {
				return "", err
			}
			alts = append(alts, body)
		}
		return "(?:" + strings.Join(alts, "|") + ")", nil
	case parameterNode:
		return c.compileParameter(n)
	default:
		return c.compileAll(n.nodes)
	}
}

func (c *compiler) compileAll(nodes []node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		s, err := c.compile(n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (c *compiler) compileParameter(n node) (string, error) {
	pt, err := c.registry.LookupByName(n.text)
	if err != nil {
		return "", err
	}

	entry := layoutEntry{parameterType: pt, group: c.groups + 1}
	for _, re := range pt.regexps {
		entry.altGroups = append(entry.altGroups, countCaptureGroups(re))
	}
	c.groups += entry.span()
	c.layout = append(c.layout, entry)

	if len(pt.regexps) == 1 {
		return "(" + pt.regexps[0] + ")", nil
	}
	wrapped := make([]string, len(pt.regexps))
	for i, re := range pt.regexps {
		wrapped[i] = "(?:" + re + ")"
	}
	return "(" + strings.Join(wrapped, "|") + ")", nil
}
