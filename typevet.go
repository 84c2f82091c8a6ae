package typevet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/typevet/typevet-go/checks"
	"github.com/typevet/typevet-go/descriptor"
)

// Config holds the failure policy an engine is constructed with. The
// configuration is bound at construction and never changes; independent
// validation contexts use independent engines.
type Config struct {
	// Strict is reserved for stricter null handling. No current check
	// consults it.
	Strict bool

	// WarnOnly logs failures instead of raising them. A failed check then
	// returns normally and the overall call still reports success.
	WarnOnly bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	cfg    Config
	logger *slog.Logger
}

// WithStrict sets the reserved strict flag.
func WithStrict(strict bool) Option {
	return func(o *engineOptions) {
		o.cfg.Strict = strict
	}
}

// WithWarnOnly switches the engine from raising failures to logging them.
func WithWarnOnly(enabled bool) Option {
	return func(o *engineOptions) {
		o.cfg.WarnOnly = enabled
	}
}

// WithLogger sets the logger used for warn-only reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Engine runs validation checks under a fixed failure policy. The zero
// options produce a raising engine with strict=true, matching the
// defaults validation starts under.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine.
func New(opts ...Option) *Engine {
	o := &engineOptions{
		cfg:    Config{Strict: true},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Engine{cfg: o.cfg, logger: o.logger}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Report applies the engine's failure policy to a violation: under the
// default policy the violation is returned as an error, under warn-only
// it is logged and nil is returned. A nil violation is a success either
// way. Adapters funnel externally produced violations through Report so
// all failures take the same path.
func (e *Engine) Report(v *checks.Violation) error {
	if v == nil {
		return nil
	}
	if e.cfg.WarnOnly {
		e.logger.Warn("validation failure",
			"code", v.Code,
			"field", v.Field,
			"message", v.Message,
		)
		return nil
	}
	return v
}

// CheckType checks that the value's runtime kind equals kind.
func (e *Engine) CheckType(value any, kind descriptor.Kind, message ...string) error {
	return e.Report(checks.PrimitiveType(value, kind, first(message)))
}

// CheckInstance checks that the value is an instance of the prototype's
// nominal type.
func (e *Engine) CheckInstance(value any, prototype any, message ...string) error {
	return e.Report(checks.Instance(value, prototype, first(message)))
}

// CheckUnion checks that the value's kind equals at least one of kinds.
func (e *Engine) CheckUnion(value any, kinds []descriptor.Kind, message ...string) error {
	return e.Report(checks.UnionKind(value, kinds, first(message)))
}

// CheckBool checks that the value is a boolean.
func (e *Engine) CheckBool(value any, message ...string) error {
	return e.Report(checks.Boolean(value, first(message)))
}

// CheckDate checks that the value is a date/time value.
func (e *Engine) CheckDate(value any, message ...string) error {
	return e.Report(checks.Date(value, first(message)))
}

// CheckCustom checks the value against a predicate. Predicate panics
// propagate to the caller unchanged.
func (e *Engine) CheckCustom(value any, pred descriptor.Predicate, message ...string) error {
	return e.Report(checks.Custom(value, pred, first(message)))
}

// CheckNotNaN checks that the value is not the float NaN sentinel.
func (e *Engine) CheckNotNaN(value any, message ...string) error {
	return e.Report(checks.NotNaN(value, first(message)))
}

// CheckRange checks that the value lies within [min, max] inclusive.
func (e *Engine) CheckRange(value, min, max any, message ...string) error {
	return e.Report(checks.Range(value, min, max, first(message)))
}

// CheckLength checks that the value's length lies within [minLen, maxLen]
// inclusive.
func (e *Engine) CheckLength(value any, minLen, maxLen int, message ...string) error {
	return e.Report(checks.Length(value, minLen, maxLen, first(message)))
}

// CheckFormat checks a string value against a named format.
func (e *Engine) CheckFormat(value any, format string, message ...string) error {
	return e.Report(checks.Format(value, format, first(message)))
}

// CheckPattern checks a string value against a regular expression.
func (e *Engine) CheckPattern(value any, pattern string, message ...string) error {
	return e.Report(checks.Pattern(value, pattern, first(message)))
}

// CheckArray checks that the value is a sequence whose every element has
// kind elem. Under the default policy the first failing element aborts the
// check; under warn-only every element is visited and each failure is
// logged independently.
func (e *Engine) CheckArray(value any, elem descriptor.Kind, message ...string) error {
	if v := checks.Array(value, first(message)); v != nil {
		return e.Report(v)
	}

	rv := reflect.ValueOf(value)
	for i := 0; i < rv.Len(); i++ {
		v := checks.PrimitiveType(rv.Index(i).Interface(), elem, first(message))
		if err := e.Report(v); err != nil {
			return err
		}
	}
	return nil
}

// CheckObject validates the value's fields against the schema. The value
// must be an object: a map with string keys, or a struct (converted
// through JSON). Nil values and sequences fail with NotAnObject. Every
// field declared in the schema is looked up in the value; absent fields
// fail as missing unless their descriptor is optional. Fields present in
// the value but not declared in the schema are ignored.
func (e *Engine) CheckObject(ctx context.Context, value any, schema *descriptor.Schema) error {
	obj, v := toObject(value)
	if v != nil {
		return e.Report(v)
	}

	for _, name := range schema.FieldNames() {
		d := schema.Fields[name]
		fieldValue, present := obj[name]
		if !present {
			if d.IsOptional() {
				continue
			}
			if err := e.Report(checks.MissingField(name)); err != nil {
				return err
			}
			continue
		}
		if err := e.CheckField(name, fieldValue, d); err != nil {
			return err
		}
	}
	return nil
}

// CheckField dispatches a single value to the check its descriptor names.
// This is the recursion point shared by CheckObject and the adapters.
func (e *Engine) CheckField(field string, value any, d *descriptor.Descriptor) error {
	switch d.Variant() {
	case descriptor.VariantPrimitive:
		return e.Report(checks.PrimitiveType(value, d.Kind(), "").WithField(field))
	case descriptor.VariantUnion:
		return e.Report(checks.UnionKind(value, d.Kinds(), "").WithField(field))
	case descriptor.VariantPredicate:
		return e.Report(checks.Custom(value, d.Predicate(), "").WithField(field))
	case descriptor.VariantInstance:
		return e.Report(checks.Instance(value, d.Type(), "").WithField(field))
	case descriptor.VariantArray:
		if v := checks.Array(value, ""); v != nil {
			return e.Report(v.WithField(field))
		}
		rv := reflect.ValueOf(value)
		for i := 0; i < rv.Len(); i++ {
			itemPath := fmt.Sprintf("%s[%d]", field, i)
			v := checks.PrimitiveType(rv.Index(i).Interface(), d.Elem(), "").WithField(itemPath)
			if err := e.Report(v); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown descriptor variant %d for field %s", d.Variant(), field)
	}
}

// toObject coerces a value into a string-keyed map for field lookup.
func toObject(value any) (map[string]any, *checks.Violation) {
	if value == nil {
		return nil, notAnObject(value, "expected an object, got null")
	}
	if m, ok := value.(map[string]any); ok {
		if m == nil {
			return nil, notAnObject(value, "expected an object, got null")
		}
		return m, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, notAnObject(value, "expected an object, got null")
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return nil, notAnObject(value, "expected an object, got array")
	case reflect.Map:
		if rv.IsNil() {
			return nil, notAnObject(value, "expected an object, got null")
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, notAnObject(value, "expected a string-keyed object")
		}
		obj := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = iter.Value().Interface()
		}
		return obj, nil
	case reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil, notAnObject(value, fmt.Sprintf("failed to convert value to object: %v", err))
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, notAnObject(value, fmt.Sprintf("failed to convert value to object: %v", err))
		}
		return obj, nil
	default:
		return nil, notAnObject(value, fmt.Sprintf("expected an object, got %s", descriptor.KindOf(value)))
	}
}

func notAnObject(value any, message string) *checks.Violation {
	return &checks.Violation{Code: checks.CodeNotAnObject, Message: message, Value: value}
}

func first(message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return ""
}
