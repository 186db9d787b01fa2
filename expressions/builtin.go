package expressions

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const (
	intRegexp         = `-?\d+`
	unsignedIntRegexp = `\d+`
	wordRegexp        = `[^\s]+`
	stringRegexp      = `"([^"\\]*(\\.[^"\\]*)*)"|'([^'\\]*(\\.[^'\\]*)*)'`
	anonymousRegexp   = `.*`
)

var (
	intType     = reflect.TypeOf(0)
	float64Type = reflect.TypeOf(float64(0))
	stringType  = reflect.TypeOf("")
)

// commaDecimal lists the base languages that write 3,14 rather than 3.14.
var commaDecimal = map[string]bool{
	"de": true, "fr": true, "es": true, "it": true, "nl": true,
	"pt": true, "ru": true, "pl": true, "sv": true, "da": true,
	"nb": true, "fi": true, "cs": true, "tr": true,
}

func decimalSeparator(locale language.Tag) string {
	base, _ := locale.Base()
	if commaDecimal[base.String()] {
		return ","
	}
	return "."
}

func floatRegexp(sep string) string {
	return `[-+]?\d*` + regexp.QuoteMeta(sep) + `?\d+(?:[eE][-+]?\d+)?`
}

func builtinParameterTypes(locale language.Tag) []*ParameterType {
	sep := decimalSeparator(locale)
	normalize := func(s string) string {
		if sep == "." {
			return s
		}
		return strings.Replace(s, sep, ".", 1)
	}

	return []*ParameterType{
		{
			name:       "int",
			regexps:    []string{intRegexp, unsignedIntRegexp},
			targetType: intType,
			transformer: StringTransformer(func(s string) (any, error) {
				return strconv.Atoi(s)
			}),
			useForSnippets:       true,
			preferForRegexpMatch: true,
		},
		{
			name:       "float",
			regexps:    []string{floatRegexp(sep)},
			targetType: float64Type,
			transformer: StringTransformer(func(s string) (any, error) {
				return strconv.ParseFloat(normalize(s), 64)
			}),
			useForSnippets: true,
		},
		{
			name:       "word",
			regexps:    []string{wordRegexp},
			targetType: stringType,
			transformer: StringTransformer(func(s string) (any, error) {
				return s, nil
			}),
		},
		{
			name:           "string",
			regexps:        []string{stringRegexp},
			targetType:     stringType,
			transformer:    CaptureGroupTransformer(unquote),
			useForSnippets: true,
		},
		{
			name:       "bigint",
			regexps:    []string{intRegexp},
			targetType: bigIntType,
			transformer: StringTransformer(func(s string) (any, error) {
				return ConvertString(s, bigIntType)
			}),
		},
		{
			name:       "bigdecimal",
			regexps:    []string{floatRegexp(sep)},
			targetType: bigFloatType,
			transformer: StringTransformer(func(s string) (any, error) {
				return ConvertString(normalize(s), bigFloatType)
			}),
		},
		{
			name:        "",
			regexps:     []string{anonymousRegexp},
			targetType:  stringType,
			transformer: defaultTransformer(stringType),
			anonymous:   true,
		},
	}
}

// unquote returns the content of whichever quote style matched, with escaped
// quotes unescaped.
func unquote(groups []*string) (any, error) {
	if len(groups) > 0 && groups[0] != nil {
		return strings.ReplaceAll(*groups[0], `\"`, `"`), nil
	}
	if len(groups) > 2 && groups[2] != nil {
		return strings.ReplaceAll(*groups[2], `\'`, `'`), nil
	}
	return "", nil
}
