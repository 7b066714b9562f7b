// Package relations declares the typed edges between persisted entities and
// the policy applied to each child when its parent is deleted. Edges are
// registered by the domain modules at startup and compiled once into an
// immutable Graph that the store consults on create, update and delete.
package relations

import (
	"fmt"
	"reflect"

	"github.com/benote/benote-core/internal/models"
)

type Policy string

const (
	Cascade  Policy = "cascade"
	Restrict Policy = "restrict"
	SetNull  Policy = "set_null"
)

type Kind string

const (
	BelongsTo Kind = "belongs_to"
	// Join marks one side of a many-to-many join row.
	Join Kind = "join"
)

// Edge points from a child table column to the parent table it references.
type Edge struct {
	Parent   string
	Child    string
	Column   string
	Policy   Policy
	Kind     Kind
	Optional bool
}

// Self reports whether the edge references its own table.
func (e Edge) Self() bool { return e.Parent == e.Child }

func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s (%s)", e.Child, e.Column, e.Parent, e.Policy)
}

// Node is a registered entity type.
type Node struct {
	Table string
	typ   reflect.Type
}

// New returns a zero value of the node's model.
func (n Node) New() models.Entity {
	return reflect.New(n.typ).Interface().(models.Entity)
}

type Stats struct {
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Cascade  int `json:"cascade"`
	Restrict int `json:"restrict"`
	SetNull  int `json:"set_null"`
}

// Graph is the compiled, read-only relationship graph.
type Graph struct {
	nodes    map[string]Node
	edges    []Edge
	parents  map[string][]Edge
	children map[string][]Edge
}

func (g *Graph) Node(table string) (Node, bool) {
	n, ok := g.nodes[table]
	return n, ok
}

// Parents returns the edges whose child is table, in registration order.
func (g *Graph) Parents(table string) []Edge {
	return g.parents[table]
}

// Children returns the edges whose parent is table, in registration order.
func (g *Graph) Children(table string) []Edge {
	return g.children[table]
}

func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Edges: len(g.edges)}
	for _, e := range g.edges {
		switch e.Policy {
		case Cascade:
			s.Cascade++
		case Restrict:
			s.Restrict++
		case SetNull:
			s.SetNull++
		}
	}
	return s
}
