package typevet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typevet/typevet-go/checks"
	"github.com/typevet/typevet-go/descriptor"
)

func warnEngine() (*Engine, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return New(WithWarnOnly(true), WithLogger(logger)), buf
}

func TestNew(t *testing.T) {
	t.Run("New defaults to strict raising mode", func(t *testing.T) {
		e := New()

		assert.True(t, e.Config().Strict)
		assert.False(t, e.Config().WarnOnly)
	})

	t.Run("New applies options", func(t *testing.T) {
		e := New(WithStrict(false), WithWarnOnly(true))

		assert.False(t, e.Config().Strict)
		assert.True(t, e.Config().WarnOnly)
	})
}

func TestCheckType(t *testing.T) {
	e := New()

	t.Run("CheckType passes on matching kind", func(t *testing.T) {
		assert.NoError(t, e.CheckType("x", descriptor.KindString))
	})

	t.Run("CheckType raises a violation on mismatch", func(t *testing.T) {
		err := e.CheckType("25", descriptor.KindNumber)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeTypeKindMismatch, v.Code)
	})

	t.Run("CheckType forwards the caller's message", func(t *testing.T) {
		err := e.CheckType(1, descriptor.KindString, "must be a name")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a name")
	})
}

func TestCheckArray(t *testing.T) {
	e := New()

	t.Run("CheckArray passes when every element matches", func(t *testing.T) {
		assert.NoError(t, e.CheckArray([]any{"a", "b", "c"}, descriptor.KindString))
	})

	t.Run("CheckArray fails on non-sequences", func(t *testing.T) {
		err := e.CheckArray("abc", descriptor.KindString)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeNotAnArray, v.Code)
	})

	t.Run("CheckArray raises on the first failing element", func(t *testing.T) {
		err := e.CheckArray([]any{"a", 1, 2}, descriptor.KindString)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeTypeKindMismatch, v.Code)
	})

	t.Run("warn-only visits every element and logs each failure", func(t *testing.T) {
		e, buf := warnEngine()

		err := e.CheckArray([]any{"a", 1, true, "b"}, descriptor.KindString)

		assert.NoError(t, err)
		assert.Equal(t, 2, strings.Count(buf.String(), "validation failure"))
	})
}

func TestCheckObject(t *testing.T) {
	ctx := context.Background()
	e := New()

	userSchema := descriptor.NewSchema("User", map[string]*descriptor.Descriptor{
		"name": descriptor.Primitive(descriptor.KindString),
		"age":  descriptor.Primitive(descriptor.KindNumber),
	})

	t.Run("CheckObject passes a conforming object", func(t *testing.T) {
		obj := map[string]any{"name": "Alice", "age": 25}

		assert.NoError(t, e.CheckObject(ctx, obj, userSchema))
	})

	t.Run("CheckObject raises naming the failing field", func(t *testing.T) {
		obj := map[string]any{"name": "Alice", "age": "25"}

		err := e.CheckObject(ctx, obj, userSchema)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeTypeKindMismatch, v.Code)
		assert.Equal(t, "age", v.Field)
		assert.Contains(t, v.Message, "number")
		assert.Contains(t, v.Message, "string")
	})

	t.Run("extra keys never cause failure", func(t *testing.T) {
		obj := map[string]any{"name": "Alice", "age": 25, "nickname": 0xBEEF}

		assert.NoError(t, e.CheckObject(ctx, obj, userSchema))
	})

	t.Run("absent declared fields are missing", func(t *testing.T) {
		obj := map[string]any{"name": "Alice"}

		err := e.CheckObject(ctx, obj, userSchema)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeMissingRequiredField, v.Code)
		assert.Equal(t, "age", v.Field)
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		schema := descriptor.NewSchema("User", map[string]*descriptor.Descriptor{
			"name": descriptor.Primitive(descriptor.KindString),
			"bio":  descriptor.Primitive(descriptor.KindString).Optional(),
		})

		assert.NoError(t, e.CheckObject(ctx, map[string]any{"name": "Alice"}, schema))
	})

	t.Run("nil and sequences are not objects", func(t *testing.T) {
		for _, value := range []any{nil, []any{1, 2}, "text", 42} {
			err := e.CheckObject(ctx, value, userSchema)

			require.Error(t, err)
			var v *checks.Violation
			require.True(t, errors.As(err, &v))
			assert.Equal(t, checks.CodeNotAnObject, v.Code)
		}
	})

	t.Run("a nil map is null, not an empty object", func(t *testing.T) {
		allOptional := descriptor.NewSchema("Prefs", map[string]*descriptor.Descriptor{
			"theme": descriptor.Primitive(descriptor.KindString).Optional(),
		})

		for _, value := range []any{map[string]any(nil), map[string]string(nil)} {
			err := e.CheckObject(ctx, value, allOptional)

			require.Error(t, err)
			var v *checks.Violation
			require.True(t, errors.As(err, &v))
			assert.Equal(t, checks.CodeNotAnObject, v.Code)
		}
	})

	t.Run("a decoded JSON null is null, not a missing-fields object", func(t *testing.T) {
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte("null"), &payload))

		err := e.CheckObject(ctx, payload, userSchema)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeNotAnObject, v.Code)
	})

	t.Run("structs are checked through their JSON shape", func(t *testing.T) {
		type user struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}

		assert.NoError(t, e.CheckObject(ctx, user{Name: "Alice", Age: 25}, userSchema))
		assert.NoError(t, e.CheckObject(ctx, &user{Name: "Alice", Age: 25}, userSchema))
	})

	t.Run("array fields report the element position", func(t *testing.T) {
		schema := descriptor.NewSchema("Post", map[string]*descriptor.Descriptor{
			"tags": descriptor.ArrayOf(descriptor.KindString),
		})

		err := e.CheckObject(ctx, map[string]any{"tags": []any{"go", 7}}, schema)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "tags[1]", v.Field)
	})

	t.Run("the first failure is reported by sorted field name", func(t *testing.T) {
		obj := map[string]any{"name": 1, "age": "x"}

		err := e.CheckObject(ctx, obj, userSchema)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "age", v.Field)
	})

	t.Run("warn-only logs every failing field and reports success", func(t *testing.T) {
		e, buf := warnEngine()
		obj := map[string]any{"name": 1, "age": "x"}

		err := e.CheckObject(ctx, obj, userSchema)

		assert.NoError(t, err)
		assert.Equal(t, 2, strings.Count(buf.String(), "validation failure"))
	})
}

func TestCheckField(t *testing.T) {
	e := New()

	t.Run("CheckField dispatches primitive descriptors", func(t *testing.T) {
		assert.NoError(t, e.CheckField("f", "x", descriptor.Primitive(descriptor.KindString)))
		assert.Error(t, e.CheckField("f", 1, descriptor.Primitive(descriptor.KindString)))
	})

	t.Run("CheckField dispatches union descriptors", func(t *testing.T) {
		d := descriptor.Union(descriptor.KindString, descriptor.KindNumber)

		assert.NoError(t, e.CheckField("f", 42, d))
		assert.Error(t, e.CheckField("f", true, d))
	})

	t.Run("CheckField dispatches array descriptors", func(t *testing.T) {
		d := descriptor.ArrayOf(descriptor.KindNumber)

		assert.NoError(t, e.CheckField("f", []any{1, 2}, d))
		assert.Error(t, e.CheckField("f", []any{1, "2"}, d))
	})

	t.Run("CheckField dispatches instance descriptors", func(t *testing.T) {
		d := descriptor.Instance(time.Time{})

		assert.NoError(t, e.CheckField("f", time.Now(), d))
		assert.Error(t, e.CheckField("f", "2024-01-01", d))
	})

	t.Run("a predicate descriptor is always a predicate, never a type", func(t *testing.T) {
		d := descriptor.PredicateFn(func(v any) bool {
			_, ok := v.(func())
			return ok
		})

		assert.NoError(t, e.CheckField("f", func() {}, d))
		assert.Error(t, e.CheckField("f", "not callable", d))
	})

	t.Run("violations carry the field name", func(t *testing.T) {
		err := e.CheckField("age", "x", descriptor.Primitive(descriptor.KindNumber))

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "age", v.Field)
	})
}

func TestCheckUnion(t *testing.T) {
	e := New()
	kinds := []descriptor.Kind{descriptor.KindString, descriptor.KindNumber}

	t.Run("CheckUnion passes a matching kind", func(t *testing.T) {
		assert.NoError(t, e.CheckUnion(42, kinds))
	})

	t.Run("CheckUnion raises on no match", func(t *testing.T) {
		err := e.CheckUnion(true, kinds)

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeUnionMismatch, v.Code)
	})
}

func TestScalarChecks(t *testing.T) {
	e := New()

	t.Run("CheckBool matches the primitive check", func(t *testing.T) {
		assert.NoError(t, e.CheckBool(true))
		assert.Error(t, e.CheckBool("true"))
	})

	t.Run("CheckDate recognizes time values", func(t *testing.T) {
		assert.NoError(t, e.CheckDate(time.Now()))
		assert.Error(t, e.CheckDate("2024-01-01"))
	})

	t.Run("CheckRange boundaries are inclusive", func(t *testing.T) {
		assert.NoError(t, e.CheckRange(10, 10, 100))
		assert.NoError(t, e.CheckRange(100, 10, 100))
		assert.Error(t, e.CheckRange(9, 10, 100))
		assert.Error(t, e.CheckRange(101, 10, 100))
	})

	t.Run("CheckLength boundaries are inclusive", func(t *testing.T) {
		assert.NoError(t, e.CheckLength("abc", 3, 5))
		assert.Error(t, e.CheckLength("ab", 3, 5))
	})

	t.Run("CheckCustom propagates predicate panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = e.CheckCustom(1, func(any) bool { panic("boom") })
		})
	})
}

func TestFailurePolicy(t *testing.T) {
	t.Run("warn-only returns success while logging", func(t *testing.T) {
		e, buf := warnEngine()

		err := e.CheckType("25", descriptor.KindNumber)

		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "validation failure")
		assert.Contains(t, buf.String(), "TYPE_KIND_MISMATCH")
	})

	t.Run("the policy is bound at construction", func(t *testing.T) {
		warning, buf := warnEngine()
		raising := New()

		assert.NoError(t, warning.CheckType(1, descriptor.KindString))
		assert.Error(t, raising.CheckType(1, descriptor.KindString))
		assert.NotEmpty(t, buf.String())
	})

	t.Run("Report passes nil violations through", func(t *testing.T) {
		assert.NoError(t, New().Report(nil))
	})

	t.Run("Report raises externally produced violations", func(t *testing.T) {
		err := New().Report(checks.MissingField("name"))

		require.Error(t, err)
		var v *checks.Violation
		require.True(t, errors.As(err, &v))
		assert.Equal(t, checks.CodeMissingRequiredField, v.Code)
	})
}
