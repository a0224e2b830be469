package store

// Relationship defines a one-to-many parent-child relationship for cascade
// operations. Parent and Child are collection names.
type Relationship struct {
	// Parent is the parent entity's collection name (e.g. "authors").
	Parent string

	// Child is the child entity's collection name (e.g. "books").
	Child string
}

// Registry holds all declared entity relationships for cascade operations.
// It is built at startup and read-only afterwards; cascade delete consults
// it instead of inspecting types at runtime.
type Registry struct {
	relationships []Relationship
	byParent      map[string][]Relationship
	byChild       map[string][]Relationship
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byParent: make(map[string][]Relationship),
		byChild:  make(map[string][]Relationship),
	}
}

// Register adds a relationship to the registry.
// This should be called during init() for each parent-child relationship.
func (r *Registry) Register(rel Relationship) {
	r.relationships = append(r.relationships, rel)
	r.byParent[rel.Parent] = append(r.byParent[rel.Parent], rel)
	r.byChild[rel.Child] = append(r.byChild[rel.Child], rel)
}

// ChildrenOf returns all child relationships for a given parent collection.
func (r *Registry) ChildrenOf(parent string) []Relationship {
	return r.byParent[parent]
}

// ParentsOf returns all relationships in which the given collection is the
// child.
func (r *Registry) ParentsOf(child string) []Relationship {
	return r.byChild[child]
}

// AllRelationships returns all registered relationships.
func (r *Registry) AllRelationships() []Relationship {
	return r.relationships
}

// HasChildren returns true if the parent collection has any registered child
// relationships.
func (r *Registry) HasChildren(parent string) bool {
	return len(r.byParent[parent]) > 0
}

// Involves returns true if the collection appears in any relationship,
// on either side.
func (r *Registry) Involves(collection string) bool {
	return len(r.byParent[collection]) > 0 || len(r.byChild[collection]) > 0
}
