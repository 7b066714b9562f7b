package relations

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/benote/benote-core/internal/models"
	"gorm.io/gorm/schema"
)

// Builder collects nodes and edges from the modules. Compile validates the
// result against the gorm schema of every registered model.
type Builder struct {
	nodes map[string]Node
	order []string
	edges []Edge
	errs  []error
}

func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]Node)}
}

// Node registers a model. Registering the same table twice is an error.
func (b *Builder) Node(model models.Entity) *Builder {
	typ := reflect.TypeOf(model)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	table := model.TableName()
	if _, ok := b.nodes[table]; ok {
		b.errs = append(b.errs, fmt.Errorf("table %s registered twice", table))
		return b
	}
	b.nodes[table] = Node{Table: table, typ: typ}
	b.order = append(b.order, table)
	return b
}

// BelongsTo declares that child.column references parent.id.
func (b *Builder) BelongsTo(child, column, parent string, policy Policy) *Builder {
	b.edges = append(b.edges, Edge{Parent: parent, Child: child, Column: column, Policy: policy, Kind: BelongsTo})
	return b
}

// Join declares one foreign key of a many-to-many join table.
func (b *Builder) Join(join, column, parent string, policy Policy) *Builder {
	b.edges = append(b.edges, Edge{Parent: parent, Child: join, Column: column, Policy: policy, Kind: Join})
	return b
}

// Compile checks every edge and returns the graph. It rejects unknown
// tables or columns, duplicate edges, set_null on non-nullable columns and
// cascade cycles that are not self references.
func (b *Builder) Compile() (*Graph, error) {
	errs := append([]error(nil), b.errs...)

	cache := &sync.Map{}
	namer := schema.NamingStrategy{}
	schemas := make(map[string]*schema.Schema, len(b.nodes))
	for _, table := range b.order {
		sch, err := schema.Parse(b.nodes[table].New(), cache, namer)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", table, err))
			continue
		}
		schemas[table] = sch
	}

	g := &Graph{
		nodes:    b.nodes,
		parents:  make(map[string][]Edge),
		children: make(map[string][]Edge),
	}
	seen := make(map[string]bool)
	for _, e := range b.edges {
		if _, ok := b.nodes[e.Parent]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown parent table", e))
			continue
		}
		sch, ok := schemas[e.Child]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown child table", e))
			continue
		}
		key := e.Child + "." + e.Column
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: column declared twice", e))
			continue
		}
		seen[key] = true

		field, ok := sch.FieldsByDBName[e.Column]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: no such column", e))
			continue
		}
		e.Optional = field.FieldType.Kind() == reflect.Ptr
		if e.Policy == SetNull && !e.Optional {
			errs = append(errs, fmt.Errorf("%s: set_null needs a nullable column", e))
			continue
		}
		if e.Policy != Cascade && e.Policy != Restrict && e.Policy != SetNull {
			errs = append(errs, fmt.Errorf("%s: unknown policy", e))
			continue
		}

		g.edges = append(g.edges, e)
		g.parents[e.Child] = append(g.parents[e.Child], e)
		g.children[e.Parent] = append(g.children[e.Parent], e)
	}

	if cycle := g.cascadeCycle(); cycle != nil {
		errs = append(errs, fmt.Errorf("cascade cycle: %v", cycle))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

// cascadeCycle returns the tables of the first cascade cycle found, ignoring
// self references, or nil.
func (g *Graph) cascadeCycle() []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.nodes))
	var path []string
	var visit func(table string) []string
	visit = func(table string) []string {
		state[table] = active
		path = append(path, table)
		for _, e := range g.children[table] {
			if e.Policy != Cascade || e.Self() {
				continue
			}
			switch state[e.Child] {
			case active:
				for i, t := range path {
					if t == e.Child {
						return append(append([]string(nil), path[i:]...), e.Child)
					}
				}
			case unvisited:
				if c := visit(e.Child); c != nil {
					return c
				}
			}
		}
		path = path[:len(path)-1]
		state[table] = done
		return nil
	}
	for table := range g.nodes {
		if state[table] == unvisited {
			if c := visit(table); c != nil {
				return c
			}
		}
	}
	return nil
}
