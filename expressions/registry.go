package expressions

import (
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/language"
)

// ParameterTypeRegistry holds the parameter types available to expressions.
// Types are defined during setup; compiling the first expression freezes the
// registry, after which it is read-only and safe for concurrent matching.
type ParameterTypeRegistry struct {
	locale       language.Tag
	all          []*ParameterType
	byName       map[string]*ParameterType
	byTargetType map[reflect.Type][]*ParameterType
	byRegexp     map[string][]*ParameterType
	frozen       atomic.Bool
}

// NewParameterTypeRegistry returns a registry seeded with the built-in
// parameter types for locale.
func NewParameterTypeRegistry(locale language.Tag) *ParameterTypeRegistry {
	r := &ParameterTypeRegistry{
		locale:       locale,
		byName:       make(map[string]*ParameterType),
		byTargetType: make(map[reflect.Type][]*ParameterType),
		byRegexp:     make(map[string][]*ParameterType),
	}
	for _, pt := range builtinParameterTypes(locale) {
		r.insert(pt)
	}
	return r
}

func (r *ParameterTypeRegistry) Locale() language.Tag {
	return r.locale
}

// DefineParameterType registers pt. Only names must be unique: types may
// share regexps and target types.
func (r *ParameterTypeRegistry) DefineParameterType(pt *ParameterType) error {
	if r.frozen.Load() {
		return ErrRegistryFrozen
	}
	if pt.name != "" {
		if _, exists := r.byName[pt.name]; exists {
			return &DuplicateTypeNameError{Name: pt.name}
		}
	}
	r.insert(pt)
	return nil
}

func (r *ParameterTypeRegistry) insert(pt *ParameterType) {
	r.all = append(r.all, pt)
	if pt.name != "" || pt.anonymous {
		r.byName[pt.name] = pt
	}
	r.byTargetType[pt.targetType] = append(r.byTargetType[pt.targetType], pt)
	for _, re := range pt.regexps {
		r.byRegexp[re] = append(r.byRegexp[re], pt)
	}
}

func (r *ParameterTypeRegistry) freeze() {
	r.frozen.Store(true)
}

// LookupByName returns the type registered under name.
func (r *ParameterTypeRegistry) LookupByName(name string) (*ParameterType, error) {
	if pt, ok := r.byName[name]; ok {
		return pt, nil
	}
	return nil, &UndefinedParameterTypeError{Name: name, Suggestion: r.closestName(name)}
}

// LookupByTargetType returns every type registered for t in insertion order.
func (r *ParameterTypeRegistry) LookupByTargetType(t reflect.Type) []*ParameterType {
	return append([]*ParameterType(nil), r.byTargetType[t]...)
}

// LookupByRegexp returns the type whose regexp text equals source, or nil.
func (r *ParameterTypeRegistry) LookupByRegexp(source string) *ParameterType {
	return preferred(r.byRegexp[source])
}

// ParameterTypes returns all types, built-ins first, in definition order.
func (r *ParameterTypeRegistry) ParameterTypes() []*ParameterType {
	return append([]*ParameterType(nil), r.all...)
}

// preferred picks the most recently registered candidate that prefers
// regexp matches, else the first candidate.
func preferred(candidates []*ParameterType) *ParameterType {
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].preferForRegexpMatch {
			return candidates[i]
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

func (r *ParameterTypeRegistry) closestName(name string) string {
	if name == "" {
		return ""
	}
	var names []string
	for n := range r.byName {
		if n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	var candidates []string
	for _, rank := range fuzzy.RankFindFold(name, names) {
		candidates = append(candidates, rank.Target)
	}
	// the typed name may also be a longer misspelling, e.g. {colour}
	for _, n := range names {
		if fuzzy.MatchFold(n, name) {
			candidates = append(candidates, n)
		}
	}

	best, bestDistance := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDistance < 0 || d < bestDistance || d == bestDistance && c < best {
			best, bestDistance = c, d
		}
	}
	return best
}
