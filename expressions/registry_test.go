package expressions

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type temperature float64

func newType(t *testing.T, name, re string, prefer bool) *ParameterType {
	t.Helper()
	pt, err := NewParameterType(name, []string{re}, reflect.TypeOf(temperature(0)),
		StringTransformer(func(s string) (any, error) { return ConvertString(s, reflect.TypeOf(temperature(0))) }),
		false, prefer)
	require.NoError(t, err)
	return pt
}

func names(types []*ParameterType) []string {
	var out []string
	for _, pt := range types {
		out = append(out, pt.Name())
	}
	return out
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)

	if diff := cmp.Diff([]string{"int", "float", "word", "string", "bigint", "bigdecimal", ""}, names(r.ParameterTypes())); diff != "" {
		t.Errorf("builtin mismatch (-want +got):\n%s", diff)
	}
	anonymous, err := r.LookupByName("")
	require.NoError(t, err)
	assert.True(t, anonymous.IsAnonymous())
	assert.Equal(t, language.English, r.Locale())
}

func TestRegistry_LookupByTargetTypeKeepsInsertionOrder(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	require.NoError(t, r.DefineParameterType(newType(t, "celsius", `-?\d+C`, false)))
	require.NoError(t, r.DefineParameterType(newType(t, "fahrenheit", `-?\d+F`, false)))

	got := r.LookupByTargetType(reflect.TypeOf(temperature(0)))

	if diff := cmp.Diff([]string{"celsius", "fahrenheit"}, names(got)); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, r.LookupByTargetType(reflect.TypeOf(struct{}{})))
}

func TestRegistry_UnnamedTypesAreNotLookedUpByName(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	require.NoError(t, r.DefineParameterType(newType(t, "", `\d+K`, false)))
	require.NoError(t, r.DefineParameterType(newType(t, "", `\d+K`, false)))

	anonymous, err := r.LookupByName("")
	require.NoError(t, err)
	assert.Equal(t, anonymousRegexp, anonymous.Regexps()[0])
	assert.NotNil(t, r.LookupByRegexp(`\d+K`))
}

func TestRegistry_PreferForRegexpMatch(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	require.NoError(t, r.DefineParameterType(newType(t, "plain", `\d+deg`, false)))
	require.NoError(t, r.DefineParameterType(newType(t, "preferred", `\d+deg`, true)))
	require.NoError(t, r.DefineParameterType(newType(t, "late", `\d+deg`, false)))

	assert.Equal(t, "preferred", r.LookupByRegexp(`\d+deg`).Name())
	assert.Nil(t, r.LookupByRegexp(`nothing`))

	expr := NewRegularExpression(regexp.MustCompile(`^it is (\d+deg)$`), r)
	args := expr.Match("it is 30deg")
	require.Len(t, args, 1)
	assert.Equal(t, "preferred", args[0].ParameterType().Name())
}

func TestRegistry_FrozenAfterCompile(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	require.NoError(t, r.DefineParameterType(newType(t, "celsius", `-?\d+C`, false)))
	_, err := NewCucumberExpression("it is {celsius}", r)
	require.NoError(t, err)

	err = r.DefineParameterType(newType(t, "kelvin", `\d+K`, false))

	assert.ErrorIs(t, err, ErrRegistryFrozen)
	_, err = r.LookupByName("kelvin")
	assert.Error(t, err)
}

func TestRegistry_UndefinedNameWithoutSuggestion(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)

	_, err := r.LookupByName("zzz")

	assert.EqualError(t, err, "Undefined parameter type {zzz}. Please register a ParameterType for {zzz}.")
}

func TestRegularExpression_InferredTypes(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	expr := NewRegularExpression(regexp.MustCompile(`^(\d+) (?:red|blue) (\w+)( balls)?$`), r)

	args := expr.Match("12 red fluffy")
	require.Len(t, args, 3)

	assert.Equal(t, "int", args[0].ParameterType().Name())
	v, err := args[0].Value()
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	assert.True(t, args[1].ParameterType().IsAnonymous())
	v, err = args[1].Value()
	require.NoError(t, err)
	assert.Equal(t, "fluffy", v)

	assert.Nil(t, args[2].Group().Value)
	v, err = args[2].Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Nil(t, expr.Match("twelve red fluffy"))
}

func TestRegularExpression_ExplicitTypeForUnregisteredKind(t *testing.T) {
	r := NewParameterTypeRegistry(language.English)
	expr := NewRegularExpression(regexp.MustCompile(`^(\w+) at (\d+)$`), r)

	args := expr.Match("coords at 7", reflect.TypeOf(struct{ X int }{}), reflect.TypeOf(uint8(0)))
	require.Len(t, args, 2)

	_, err := args[0].Value()
	var undefined *UndefinedParameterTypeError
	require.ErrorAs(t, err, &undefined)

	v, err := args[1].Value()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), v)
}
