// Package typevet provides runtime type validation of in-memory values
// against declarative schemas.
//
// An Engine runs individual checks (primitive kind, instance, array
// element, union, object schema, range, length, custom predicate) under a
// fixed failure policy chosen at construction: raise the first failure as
// an error (the default), or log every failure and report success
// (warn-only). The policy lives in one place; the checks themselves only
// produce violations.
//
// Key features:
//   - Explicit tagged descriptors built through named constructors
//   - Object schema validation with per-field dispatch and recursion
//   - Per-engine failure policy instead of process-global flags
//   - Named schema registry with opt-in validation and custom rules
//   - Schema defaults filled in through Normalize, independent of checks
//   - Format and pattern checks for string values
//
// Basic usage:
//
//	engine := typevet.New()
//
//	schema := descriptor.NewSchema("User", map[string]*descriptor.Descriptor{
//	    "name": descriptor.Primitive(descriptor.KindString),
//	    "age":  descriptor.Primitive(descriptor.KindNumber),
//	    "tags": descriptor.ArrayOf(descriptor.KindString).Optional(),
//	})
//
//	err := engine.CheckObject(ctx, payload, schema)
//	if err != nil {
//	    log.Printf("validation failed: %v", err)
//	}
//
// A warn-only engine logs failures through its slog.Logger and returns
// nil from every check; callers must not assume a check that failed
// halted execution.
package typevet
