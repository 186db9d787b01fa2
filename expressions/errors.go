package expressions

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrRegistryFrozen is returned when a parameter type is defined after an
// expression has been compiled against the registry.
var ErrRegistryFrozen = errors.New("parameter type registry is frozen: define parameter types before compiling expressions")

type IllegalParameterTypeNameError struct {
	Name string
	Char rune
}

func (e *IllegalParameterTypeNameError) Error() string {
	return fmt.Sprintf("Illegal character '%c' in parameter name {%s}.", e.Char, e.Name)
}

type DuplicateTypeNameError struct {
	Name string
}

func (e *DuplicateTypeNameError) Error() string {
	return "There is already a parameter type with name " + e.Name
}

// UndefinedParameterTypeError is returned when an expression references a
// name, or a Match call a target type, that nothing was registered for.
type UndefinedParameterTypeError struct {
	Name       string
	TargetType reflect.Type
	Suggestion string
}

func (e *UndefinedParameterTypeError) Error() string {
	if e.Name == "" && e.TargetType != nil {
		return fmt.Sprintf("Undefined parameter type for type %v. Please register a ParameterType for %v.", e.TargetType, e.TargetType)
	}
	msg := fmt.Sprintf("Undefined parameter type {%s}. Please register a ParameterType for {%s}.", e.Name, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" Did you mean {%s}?", e.Suggestion)
	}
	return msg
}

type AmbiguousTransformerError struct {
	Name    string
	Regexps []string
}

func (e *AmbiguousTransformerError) Error() string {
	return fmt.Sprintf("ParameterType {%s} was registered with a Transformer but has multiple capture groups [%s]. "+
		"Did you mean to use a CaptureGroupTransformer?", e.Name, strings.Join(e.Regexps, ", "))
}

type AnonymousMultipleCaptureGroupsError struct {
	Regexps []string
}

func (e *AnonymousMultipleCaptureGroupsError) Error() string {
	return fmt.Sprintf("Anonymous ParameterType has multiple capture groups [%s]. "+
		"You can only use a single capture group in an anonymous ParameterType.", strings.Join(e.Regexps, ", "))
}

// TransformError wraps a failure raised by a user supplied transformer.
type TransformError struct {
	Name       string
	Text       string
	TargetType reflect.Type
	Cause      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("ParameterType {%s} failed to transform [%s] to %v", e.Name, e.Text, e.TargetType)
}

func (e *TransformError) Unwrap() error {
	return e.Cause
}

// GrammarError reports a syntax problem in a Cucumber Expression.
type GrammarError struct {
	Expression string
	Index      int
	Problem    string
	Solution   string
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "This Cucumber Expression has a problem at column %d:\n\n", e.Index+1)
	b.WriteString(e.Expression)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", e.Index))
	b.WriteString("^\n")
	b.WriteString(e.Problem)
	if e.Solution != "" {
		b.WriteString(".\n")
		b.WriteString(e.Solution)
	}
	return b.String()
}

func grammarError(expression string, index int, problem, solution string) *GrammarError {
	return &GrammarError{Expression: expression, Index: index, Problem: problem, Solution: solution}
}
