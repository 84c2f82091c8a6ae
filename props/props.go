// Package props validates a component's declared properties. It is the
// UI-side translator over the engine: absent props are filled from their
// descriptor defaults, optional props may stay absent, and everything
// else dispatches through the engine's field check and failure policy.
package props

import (
	"sort"

	typevet "github.com/typevet/typevet-go"
	"github.com/typevet/typevet-go/checks"
	"github.com/typevet/typevet-go/descriptor"
)

// Spec declares the props a component accepts, by name.
type Spec map[string]*descriptor.Descriptor

// Check validates the given prop values against the declared spec. Props
// present in values but not declared in the spec are ignored. Declared
// props are checked in sorted name order so the first reported failure is
// deterministic.
func Check(engine *typevet.Engine, spec Spec, values map[string]any) error {
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := spec[name]
		value, present := values[name]
		if !present {
			if def, ok := d.DefaultValue(); ok {
				value = def
			} else if d.IsOptional() {
				continue
			} else {
				if err := engine.Report(checks.MissingField(name)); err != nil {
					return err
				}
				continue
			}
		}
		if err := engine.CheckField(name, value, d); err != nil {
			return err
		}
	}
	return nil
}
