package expressions

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
)

var (
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
	bigFloatType = reflect.TypeOf((*big.Float)(nil))
)

// ConvertString converts s to a value of type t. Strings, booleans, numeric
// kinds, *big.Int and *big.Float are supported; anything else is reported
// as an undefined parameter type for t.
func ConvertString(s string, t reflect.Type) (any, error) {
	if t == nil {
		return s, nil
	}
	switch t {
	case bigIntType:
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	case bigFloatType:
		f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetFloat(f)
	default:
		return nil, &UndefinedParameterTypeError{TargetType: t}
	}
	return v.Interface(), nil
}

func defaultTransformer(t reflect.Type) Transformer {
	return StringTransformer(func(s string) (any, error) {
		return ConvertString(s, t)
	})
}
