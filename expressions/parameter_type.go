package expressions

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type transformerKind int

const (
	stringTransformer transformerKind = iota
	captureGroupTransformer
)

// Transformer converts captured text into a value. It is either a plain
// string transformer or a capture group transformer.
type Transformer struct {
	kind   transformerKind
	str    func(string) (any, error)
	groups func([]*string) (any, error)
}

// StringTransformer receives the single captured value of a parameter.
func StringTransformer(fn func(string) (any, error)) Transformer {
	return Transformer{kind: stringTransformer, str: fn}
}

// CaptureGroupTransformer receives every capture group declared by the
// parameter's own regexp. Groups that did not participate are nil.
func CaptureGroupTransformer(fn func([]*string) (any, error)) Transformer {
	return Transformer{kind: captureGroupTransformer, groups: fn}
}

// IsCaptureGroup reports whether t consumes all capture groups.
func (t Transformer) IsCaptureGroup() bool {
	return t.kind == captureGroupTransformer
}

// ParameterType pairs one or more regexps with a target type and a
// transformer. It is immutable after construction.
type ParameterType struct {
	name                 string
	regexps              []string
	targetType           reflect.Type
	transformer          Transformer
	useForSnippets       bool
	preferForRegexpMatch bool
	anonymous            bool
}

// NewParameterType validates name and returns a ParameterType. An empty name
// creates a type that can only be found by regexp or target type.
func NewParameterType(name string, regexps []string, targetType reflect.Type, transformer Transformer, useForSnippets, preferForRegexpMatch bool) (*ParameterType, error) {
	if err := checkParameterTypeName(name); err != nil {
		return nil, err
	}
	if len(regexps) == 0 {
		return nil, fmt.Errorf("parameter type {%s} needs at least one regexp", name)
	}
	if transformer.str == nil && transformer.groups == nil {
		return nil, fmt.Errorf("parameter type {%s} needs a transformer", name)
	}
	return &ParameterType{
		name:                 name,
		regexps:              append([]string(nil), regexps...),
		targetType:           targetType,
		transformer:          transformer,
		useForSnippets:       useForSnippets,
		preferForRegexpMatch: preferForRegexpMatch,
	}, nil
}

func checkParameterTypeName(name string) error {
	for _, r := range name {
		if !isNameRune(r) {
			return &IllegalParameterTypeNameError{Name: name, Char: r}
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}

func (p *ParameterType) Name() string { return p.name }
func (p *ParameterType) Regexps() []string { return append([]string(nil), p.regexps...) }
func (p *ParameterType) TargetType() reflect.Type { return p.targetType }
func (p *ParameterType) Transformer() Transformer { return p.transformer }
func (p *ParameterType) UseForSnippets() bool { return p.useForSnippets }
func (p *ParameterType) PreferForRegexpMatch() bool { return p.preferForRegexpMatch }
func (p *ParameterType) IsAnonymous() bool { return p.anonymous }

// anonymousFor returns a copy of p bound positionally to a single group of a
// caller supplied regexp.
func (p *ParameterType) anonymousFor(groupSource string) *ParameterType {
	cp := *p
	cp.regexps = []string{groupSource}
	cp.anonymous = true
	cp.preferForRegexpMatch = false
	cp.useForSnippets = false
	return &cp
}

// withTargetType returns an anonymous copy of p converting to t.
func (p *ParameterType) withTargetType(t reflect.Type) *ParameterType {
	cp := *p
	cp.targetType = t
	cp.anonymous = true
	cp.transformer = defaultTransformer(t)
	return &cp
}

func (p *ParameterType) transform(values []*string) (any, error) {
	if p.transformer.kind == captureGroupTransformer {
		return p.call(values, func() (any, error) { return p.transformer.groups(values) })
	}

	if len(values) > 1 {
		if p.anonymous {
			return nil, &AnonymousMultipleCaptureGroupsError{Regexps: p.Regexps()}
		}
		return nil, &AmbiguousTransformerError{Name: p.name, Regexps: p.Regexps()}
	}
	if len(values) == 0 || values[0] == nil {
		return nil, nil
	}
	arg := *values[0]
	return p.call(values, func() (any, error) { return p.transformer.str(arg) })
}

// call invokes fn, reporting any error or panic as a TransformError.
// Lookup failures from the default transformer pass through unwrapped.
func (p *ParameterType) call(values []*string, fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			v, err = nil, p.transformError(values, cause)
		}
	}()

	v, err = fn()
	if err != nil {
		var undefined *UndefinedParameterTypeError
		if errors.As(err, &undefined) {
			return nil, err
		}
		return nil, p.transformError(values, err)
	}
	return v, nil
}

func (p *ParameterType) transformError(values []*string, cause error) error {
	var present []string
	for _, v := range values {
		if v != nil {
			present = append(present, *v)
		}
	}
	return &TransformError{
		Name:       p.name,
		Text:       strings.Join(present, ", "),
		TargetType: p.targetType,
		Cause:      cause,
	}
}
