package rocrate

import "errors"

// descriptorID is the reserved "@id" of the metadata descriptor entity
// that every conformant RO-Crate graph carries.
const descriptorID = "ro-crate-metadata.json"

// ErrNoCrate indicates a Crate was requested where none was found.
var ErrNoCrate = errors.New("rocrate: no crate")

// Crate is an immutable, read-only view over a parsed RO-Crate graph. It
// never exposes the underlying mutable Entity maps for write access.
type Crate struct {
	graph *Graph
}

// NewCrate wraps graph as a read-only Crate.
func NewCrate(graph *Graph) *Crate {
	return &Crate{graph: graph}
}

// Entity returns a copy of the entity with the given path/"@id"; mutating
// the result never affects the crate's cached graph.
func (c *Crate) Entity(id string) (Entity, bool) {
	return c.graph.Entity(id)
}

// Len returns the number of entities in the crate's graph.
func (c *Crate) Len() int {
	return c.graph.Len()
}

// Descriptor returns the reserved metadata descriptor entity
// ("ro-crate-metadata.json"), if present.
func (c *Crate) Descriptor() (Entity, bool) {
	return c.graph.Entity(descriptorID)
}

// RootDataEntity resolves the crate's root dataset: the entity referenced
// by the metadata descriptor's "about" property, per the RO-Crate
// convention of indirecting through "ro-crate-metadata.json" rather than
// assuming a fixed "@id" for the root.
func (c *Crate) RootDataEntity() (Entity, bool) {
	descriptor, ok := c.Descriptor()
	if !ok {
		return Entity{}, false
	}
	rootID, ok := descriptor.Ref("about")
	if !ok {
		return Entity{}, false
	}
	return c.graph.Entity(rootID)
}

// ConformsTo returns the conformance profile URIs declared on the
// metadata descriptor entity, or nil if none are declared or there is no
// descriptor. Each profile may be given as a bare string or as a
// {"@id": "..."} reference, singly or in an array.
func (c *Crate) ConformsTo() []string {
	descriptor, ok := c.Descriptor()
	if !ok {
		return nil
	}
	v, ok := descriptor["conformsTo"]
	if !ok {
		return nil
	}
	items, isList := v.([]any)
	if !isList {
		items = []any{v}
	}
	var out []string
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			if id, ok := t["@id"].(string); ok {
				out = append(out, id)
			}
		}
	}
	return out
}
