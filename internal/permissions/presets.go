package permissions

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/models"
	"gopkg.in/yaml.v3"
)

// Preset is a named set of capabilities granted together.
type Preset struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	Capabilities []models.Capability `yaml:"capabilities"`
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// Presets is a concurrency-safe registry of capability presets.
type Presets struct {
	mu      sync.RWMutex
	presets map[string]*Preset
}

func NewPresets() *Presets {
	return &Presets{presets: make(map[string]*Preset)}
}

// DefaultPresets is used when no presets file is configured.
func DefaultPresets() *Presets {
	p := NewPresets()
	p.Register(&Preset{Name: "viewer", Description: "Read and discuss"})
	p.Register(&Preset{
		Name:         "contributor",
		Description:  "Write notes and tasks",
		Capabilities: []models.Capability{models.CapParticipateDiscussion, models.CapCreateNotes, models.CapCreateTask, models.CapCreateTodo},
	})
	p.Register(&Preset{Name: "manager", Description: "Everything", Capabilities: models.Capabilities})
	return p
}

// LoadPresets reads a YAML presets file and checks every capability name.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return ParsePresets(data)
}

func ParsePresets(data []byte) (*Presets, error) {
	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	registry := NewPresets()
	for i := range file.Presets {
		p := &file.Presets[i]
		if p.Name == "" {
			return nil, apperrors.Required("presets.name")
		}
		for _, c := range p.Capabilities {
			if _, err := models.ParseCapability(string(c)); err != nil {
				return nil, fmt.Errorf("preset %s: %w", p.Name, err)
			}
		}
		registry.Register(p)
	}
	return registry, nil
}

func (r *Presets) Register(p *Preset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[p.Name] = p
}

func (r *Presets) Get(name string) (*Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	if !ok {
		return nil, apperrors.Validation("preset", "unknown preset "+name)
	}
	return p, nil
}

func (r *Presets) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Grants reports whether the preset includes c.
func (p *Preset) Grants(c models.Capability) bool {
	for _, have := range p.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
