package rosmsg

import (
	"fmt"
	"sort"
	"sync"
)

// Field is one named slot of a message, in declaration order.
type Field struct {
	Name  string
	Value any
}

// Message is the capability interface every bridgeable record kind implements.
//
// Fields returns the record's slots in declaration order so downstream
// encoders can emit deterministic, ordered output. SetField coerces the given
// value into the declared type of the named field and fails with a
// *CoercionError when the value cannot be represented.
type Message interface {
	TypeName() string
	Fields() []Field
	Field(name string) (any, bool)
	SetField(name string, value any) error
}

// Constructor produces a fresh zero-valued message of one kind.
type Constructor func() Message

// Registry maps ROS type names ("std_msgs/String") to message constructors.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Constructor)}
}

// Register adds or replaces the constructor for a type name.
func (r *Registry) Register(typeName string, fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[typeName] = fn
}

// Resolve returns the constructor for a type name.
func (r *Registry) Resolve(typeName string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.kinds[typeName]
	return fn, ok
}

// New constructs a fresh message of the named kind.
func (r *Registry) New(typeName string) (Message, error) {
	fn, ok := r.Resolve(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", typeName)
	}
	return fn(), nil
}

// TypeNames returns the registered type names sorted for stable listing.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default carries the builtin message kinds shipped with the bridge.
var Default = NewRegistry()

func register(typeName string, fn Constructor) {
	Default.Register(typeName, fn)
}

// fieldByName is the shared Field lookup over an ordered field list.
func fieldByName(fields []Field, name string) (any, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
