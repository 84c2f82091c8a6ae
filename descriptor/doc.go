// Package descriptor defines the data model for runtime validation: kind
// names and classification, the Descriptor tagged union, and the Schema
// type that maps field names to descriptors.
//
// A Descriptor is always built through one of the named constructors
// (Primitive, Instance, ArrayOf, PredicateFn, Union), so its variant is
// carried explicitly rather than inferred from the value's shape.
package descriptor
