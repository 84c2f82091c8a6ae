package descriptor

import (
	"fmt"
	"reflect"
	"strings"
)

// Variant identifies which shape of check a Descriptor stands for.
type Variant int

const (
	VariantPrimitive Variant = iota
	VariantInstance
	VariantArray
	VariantPredicate
	VariantUnion
)

// Predicate is a single-argument validation function. A value is valid
// when the predicate returns true.
type Predicate func(value any) bool

// Descriptor describes what constitutes a valid value for one field or
// argument. Descriptors are built through the named constructors only, so
// the variant is always explicit; a predicate can never be mistaken for a
// nominal type and vice versa.
type Descriptor struct {
	variant  Variant
	kind     Kind
	kinds    []Kind
	elem     Kind
	typ      reflect.Type
	pred     Predicate
	optional bool
	def      any
	hasDef   bool
}

// Primitive describes a value whose runtime kind must equal kind.
func Primitive(kind Kind) *Descriptor {
	return &Descriptor{variant: VariantPrimitive, kind: kind}
}

// Instance describes a value that must be an instance of the prototype's
// nominal type. The prototype may be an example value or a reflect.Type.
func Instance(prototype any) *Descriptor {
	typ, ok := prototype.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(prototype)
	}
	return &Descriptor{variant: VariantInstance, typ: typ}
}

// ArrayOf describes a sequence whose every element must have kind elem.
func ArrayOf(elem Kind) *Descriptor {
	return &Descriptor{variant: VariantArray, elem: elem}
}

// PredicateFn describes a value that must satisfy fn.
func PredicateFn(fn Predicate) *Descriptor {
	return &Descriptor{variant: VariantPredicate, pred: fn}
}

// Union describes a value whose runtime kind must equal at least one of
// kinds. Order does not affect matching and duplicates are harmless.
func Union(kinds ...Kind) *Descriptor {
	return &Descriptor{variant: VariantUnion, kinds: append([]Kind(nil), kinds...)}
}

// Optional returns a copy of the descriptor whose field is allowed to be
// absent. The receiver is left unchanged, so a descriptor already stored
// in a schema is not affected.
func (d *Descriptor) Optional() *Descriptor {
	copied := *d
	copied.optional = true
	return &copied
}

// Default returns a copy of the descriptor carrying a fill-in value used
// by Schema.Normalize when the field is absent. The default is not itself
// validated, and the receiver is left unchanged.
func (d *Descriptor) Default(value any) *Descriptor {
	copied := *d
	copied.def = value
	copied.hasDef = true
	return &copied
}

// Variant returns the descriptor's shape.
func (d *Descriptor) Variant() Variant { return d.variant }

// Kind returns the expected kind of a primitive descriptor.
func (d *Descriptor) Kind() Kind { return d.kind }

// Kinds returns the acceptable kinds of a union descriptor.
func (d *Descriptor) Kinds() []Kind { return append([]Kind(nil), d.kinds...) }

// Elem returns the element kind of an array descriptor.
func (d *Descriptor) Elem() Kind { return d.elem }

// Type returns the nominal type of an instance descriptor.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Predicate returns the predicate of a predicate descriptor.
func (d *Descriptor) Predicate() Predicate { return d.pred }

// IsOptional reports whether the field may be absent.
func (d *Descriptor) IsOptional() bool { return d.optional }

// DefaultValue returns the fill-in default, if one was attached.
func (d *Descriptor) DefaultValue() (any, bool) { return d.def, d.hasDef }

// String renders the descriptor for failure messages.
func (d *Descriptor) String() string {
	switch d.variant {
	case VariantPrimitive:
		return string(d.kind)
	case VariantInstance:
		if d.typ == nil {
			return "instance of <nil>"
		}
		return "instance of " + d.typ.String()
	case VariantArray:
		return fmt.Sprintf("array of %s", d.elem)
	case VariantPredicate:
		return "predicate"
	case VariantUnion:
		names := make([]string, len(d.kinds))
		for i, k := range d.kinds {
			names[i] = string(k)
		}
		return "one of [" + strings.Join(names, " ") + "]"
	default:
		return "unknown"
	}
}
