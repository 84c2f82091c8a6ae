// Package checks contains the individual validation checks. Every check
// returns a *Violation describing the failure, or nil on success; no check
// logs, panics, or raises on its own. The decision to raise or to warn is
// made once, at the engine boundary.
package checks

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/typevet/typevet-go/descriptor"
)

// PrimitiveType checks that the value's runtime kind equals kind.
func PrimitiveType(value any, kind descriptor.Kind, message string) *Violation {
	if descriptor.Matches(value, kind) {
		return nil
	}
	if message == "" {
		message = fmt.Sprintf("expected type %s, got %s", kind, descriptor.KindOf(value))
	}
	return &Violation{Code: CodeTypeKindMismatch, Message: message, Value: value}
}

// Boolean checks that the value is a boolean.
func Boolean(value any, message string) *Violation {
	return PrimitiveType(value, descriptor.KindBoolean, message)
}

// Instance checks that the value is an instance of the prototype's nominal
// type. Matching is by type identity after at most one pointer
// dereference on either side; interface satisfaction and structural
// similarity do not count.
func Instance(value any, prototype any, message string) *Violation {
	want, ok := prototype.(reflect.Type)
	if !ok {
		want = reflect.TypeOf(prototype)
	}
	if want != nil && want.Kind() == reflect.Ptr {
		want = want.Elem()
	}

	got := reflect.TypeOf(value)
	if got != nil && got.Kind() == reflect.Ptr {
		got = got.Elem()
	}

	if want != nil && got == want {
		return nil
	}
	if message == "" {
		name := "<nil>"
		if want != nil {
			name = want.String()
		}
		message = fmt.Sprintf("expected instance of %s, got %T", name, value)
	}
	return &Violation{Code: CodeInstanceMismatch, Message: message, Value: value}
}

// UnionKind checks that the value's runtime kind equals at least one of
// kinds. Order does not affect matching and duplicates are harmless.
func UnionKind(value any, kinds []descriptor.Kind, message string) *Violation {
	for _, kind := range kinds {
		if descriptor.Matches(value, kind) {
			return nil
		}
	}
	if message == "" {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		message = fmt.Sprintf("expected one of [%s], got %s", strings.Join(names, " "), descriptor.KindOf(value))
	}
	return &Violation{Code: CodeUnionMismatch, Message: message, Value: value}
}

// Array checks that the value is a sequence container. Element checks are
// driven by the engine so that the failure policy applies per element.
func Array(value any, message string) *Violation {
	if value != nil {
		switch reflect.ValueOf(value).Kind() {
		case reflect.Slice, reflect.Array:
			return nil
		}
	}
	if message == "" {
		message = fmt.Sprintf("expected an array, got %s", descriptor.KindOf(value))
	}
	return &Violation{Code: CodeNotAnArray, Message: message, Value: value}
}

// Date checks that the value is a date/time value (time.Time, or a
// pointer to one).
func Date(value any, message string) *Violation {
	switch t := value.(type) {
	case time.Time:
		return nil
	case *time.Time:
		if t != nil {
			return nil
		}
	}
	if message == "" {
		message = fmt.Sprintf("expected a date value, got %s", descriptor.KindOf(value))
	}
	return &Violation{Code: CodeTypeKindMismatch, Message: message, Value: value}
}

// Custom checks the value against a predicate. Panics raised by the
// predicate are not recovered and propagate to the caller unchanged.
func Custom(value any, pred descriptor.Predicate, message string) *Violation {
	if pred(value) {
		return nil
	}
	if message == "" {
		message = "custom validation failed"
	}
	return &Violation{Code: CodeValidationFailed, Message: message, Value: value}
}

// NotNaN checks that the value is not the floating-point NaN sentinel.
// Non-float values always pass; a string is not flagged by this check.
func NotNaN(value any, message string) *Violation {
	var nan bool
	switch f := value.(type) {
	case float64:
		nan = math.IsNaN(f)
	case float32:
		nan = math.IsNaN(float64(f))
	}
	if !nan {
		return nil
	}
	if message == "" {
		message = "value is NaN"
	}
	return &Violation{Code: CodeNotANumber, Message: message, Value: value}
}

// Range checks that the value lies within [min, max] inclusive, using the
// value's natural ordering: numeric comparison for numbers, lexicographic
// comparison for strings. Values that cannot be compared with the bounds
// fail.
func Range(value, min, max any, message string) *Violation {
	if v, okV := toFloat(value); okV {
		lo, okLo := toFloat(min)
		hi, okHi := toFloat(max)
		if okLo && okHi {
			if v >= lo && v <= hi {
				return nil
			}
			if message == "" {
				message = fmt.Sprintf("value %v is outside range [%v, %v]", value, min, max)
			}
			return &Violation{Code: CodeRangeViolation, Message: message, Value: value}
		}
	}

	if s, okS := value.(string); okS {
		lo, okLo := min.(string)
		hi, okHi := max.(string)
		if okLo && okHi {
			if s >= lo && s <= hi {
				return nil
			}
			if message == "" {
				message = fmt.Sprintf("value %q is outside range [%q, %q]", s, lo, hi)
			}
			return &Violation{Code: CodeRangeViolation, Message: message, Value: value}
		}
	}

	if message == "" {
		message = fmt.Sprintf("value of kind %s is not comparable with the range bounds", descriptor.KindOf(value))
	}
	return &Violation{Code: CodeRangeViolation, Message: message, Value: value}
}

// Length checks that the value's length lies within [minLen, maxLen]
// inclusive. The value must expose a length measure (string, slice,
// array, or map); anything else fails.
func Length(value any, minLen, maxLen int, message string) *Violation {
	length, ok := lengthOf(value)
	if !ok {
		if message == "" {
			message = fmt.Sprintf("value of kind %s has no length", descriptor.KindOf(value))
		}
		return &Violation{Code: CodeLengthViolation, Message: message, Value: value}
	}

	if length < minLen {
		if message == "" {
			message = fmt.Sprintf("length %d is less than minimum %d", length, minLen)
		}
		return &Violation{Code: CodeLengthViolation, Message: message, Value: value}
	}
	if length > maxLen {
		if message == "" {
			message = fmt.Sprintf("length %d exceeds maximum %d", length, maxLen)
		}
		return &Violation{Code: CodeLengthViolation, Message: message, Value: value}
	}
	return nil
}

func lengthOf(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func toFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
