package typevet

import (
	"context"
	"fmt"
	"sync"

	"github.com/typevet/typevet-go/descriptor"
)

// Registry holds named schemas and the custom rules attached to them.
// Validation through a registry is opt-in: a type with no registered
// schema always passes. The registry is the only shared mutable state in
// the package and is safe for concurrent use; engines themselves are
// immutable.
type Registry struct {
	engine  *Engine
	schemas map[string]*descriptor.Schema
	rules   map[string][]Rule
	mu      sync.RWMutex
}

// NewRegistry creates a registry bound to the given engine. A nil engine
// is replaced by a default raising engine.
func NewRegistry(engine *Engine) *Registry {
	if engine == nil {
		engine = New()
	}
	return &Registry{
		engine:  engine,
		schemas: make(map[string]*descriptor.Schema),
		rules:   make(map[string][]Rule),
	}
}

// Engine returns the engine the registry validates with.
func (r *Registry) Engine() *Engine { return r.engine }

// RegisterSchema registers a schema for a type name.
func (r *Registry) RegisterSchema(typeName string, schema *descriptor.Schema) error {
	if typeName == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	if schema == nil {
		return fmt.Errorf("schema cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas[typeName] = schema
	return nil
}

// RegisterRule attaches a custom rule to a type name. Rules run after the
// schema check, in registration order.
func (r *Registry) RegisterRule(typeName string, rule Rule) error {
	if typeName == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	if rule == nil {
		return fmt.Errorf("rule cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[typeName] = append(r.rules[typeName], rule)
	return nil
}

// GetSchema retrieves a schema by type name.
func (r *Registry) GetSchema(typeName string) (*descriptor.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[typeName]
	if !exists {
		return nil, fmt.Errorf("schema not found for type: %s", typeName)
	}
	return schema, nil
}

// Validate validates a value against the schema and rules registered for
// typeName. A type with no registered schema passes without any checks.
func (r *Registry) Validate(ctx context.Context, typeName string, value any) error {
	schema, err := r.GetSchema(typeName)
	if err != nil {
		return nil
	}

	if err := r.engine.CheckObject(ctx, value, schema); err != nil {
		return err
	}

	r.mu.RLock()
	rules := append([]Rule(nil), r.rules[typeName]...)
	r.mu.RUnlock()

	for _, rule := range rules {
		if v := rule.Validate(ctx, typeName, value); v != nil {
			if err := r.engine.Report(v); err != nil {
				return err
			}
		}
	}
	return nil
}
