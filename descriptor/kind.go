package descriptor

import (
	"fmt"
	"math"
	"reflect"
)

// Kind names the runtime primitive kind of a value.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindBoolean  Kind = "boolean"
	KindFunction Kind = "function"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
	KindNull     Kind = "null"
)

// ParseKind converts a kind name into a Kind.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindFunction, KindArray, KindObject, KindNull:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q", name)
	}
}

// KindOf classifies a runtime value. Integral values classify as number,
// never integer; KindInteger is only meaningful as an expected kind
// (see Matches). Nil values and nil pointers classify as null.
func KindOf(value any) Kind {
	if value == nil {
		return KindNull
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Func:
		return KindFunction
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	default:
		return KindObject
	}
}

// Matches reports whether a value satisfies an expected kind. A float with
// an integral value satisfies KindInteger, and any integer also satisfies
// KindNumber.
func Matches(value any, kind Kind) bool {
	if kind == KindInteger {
		if value == nil {
			return false
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			return f == math.Trunc(f) && !math.IsInf(f, 0)
		default:
			return false
		}
	}
	return KindOf(value) == kind
}
