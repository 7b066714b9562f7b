// Package modules groups the entities by domain area. Each module declares
// the models it migrates and the relationship edges it owns; the process and
// the tests build the schema and the graph from All.
package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

// Module is implemented by every domain area.
type Module interface {
	// ID is a short stable name used in logs.
	ID() string

	// Models returns the model pointers for AutoMigrate, parents first.
	Models() []models.Entity

	// Relations declares the edges whose child table belongs to the module.
	Relations(b *relations.Builder)
}

// All returns every module in migration order.
func All() []Module {
	return []Module{
		Accounts{},
		Teams{},
		Workspaces{},
		Classrooms{},
		Planning{},
		Notifications{},
	}
}

// Graph registers the models of mods and compiles their edges.
func Graph(mods []Module) (*relations.Graph, error) {
	b := relations.NewBuilder()
	for _, m := range mods {
		for _, model := range m.Models() {
			b.Node(model)
		}
	}
	for _, m := range mods {
		m.Relations(b)
	}
	return b.Compile()
}

// Migratable flattens the models of mods for gorm's AutoMigrate.
func Migratable(mods []Module) []interface{} {
	var out []interface{}
	for _, m := range mods {
		for _, model := range m.Models() {
			out = append(out, model)
		}
	}
	return out
}
