package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/terragridgo/internal/graph"
)

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the node types of a single application instance.
type Registry struct {
	types map[string]*graph.NodeType
}

// New creates an empty registry and registers the given modules.
func New(modules ...Module) *Registry {
	r := &Registry{types: make(map[string]*graph.NodeType)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterNodeType adds a node type. Registering the same tag twice is a
// programming error and panics.
func (r *Registry) RegisterNodeType(t *graph.NodeType) {
	if t == nil || t.Tag == "" {
		panic("node type must have a tag")
	}
	if _, exists := r.types[t.Tag]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", t.Tag))
	}
	slog.Debug("Registering node type.", "tag", t.Tag, "category", t.Category)
	r.types[t.Tag] = t
}

// Lookup returns the node type registered under tag.
func (r *Registry) Lookup(tag string) (*graph.NodeType, bool) {
	t, ok := r.types[tag]
	return t, ok
}

// MustLookup is Lookup that returns an error naming the known tags.
func (r *Registry) MustLookup(tag string) (*graph.NodeType, error) {
	t, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q (known: %v)", tag, r.Tags())
	}
	return t, nil
}

// Tags returns the registered tags, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Categories groups the registered tags by category. Both the categories
// and the tags within them are sorted.
func (r *Registry) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, tag := range r.Tags() {
		c := r.types[tag].Category
		out[c] = append(out[c], tag)
	}
	return out
}
