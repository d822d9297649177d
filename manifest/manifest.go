package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/veldt-engine/scenehost/errors"
)

// Manifest describes one loadable environment: the resources the host
// provisions before any script runs, the scripts to instantiate, and
// what each script is granted access to. Everything a script is not
// granted stays invisible to it.
type Manifest struct {
	Name           string   `json:"name" validate:"required"`
	MaxMemoryPages uint32   `json:"maxMemoryPages,omitempty" validate:"lte=65536"`
	Scene          SceneDef `json:"scene"`
	Scripts        []Script `json:"scripts" validate:"dive"`
}

// SceneDef is the host-provisioned scene and its root nodes.
type SceneDef struct {
	Name  string    `json:"name"`
	Nodes []NodeDef `json:"nodes,omitempty" validate:"dive"`
}

// NodeDef is a host-provisioned node. Names are how grants refer to
// provisioned resources, so they are required here even though node
// names are optional in general.
type NodeDef struct {
	Name        string     `json:"name" validate:"required"`
	Translation [3]float32 `json:"translation,omitempty"`
	Rotation    [4]float32 `json:"rotation,omitempty"`
	Scale       [3]float32 `json:"scale,omitempty"`
	Static      bool       `json:"static,omitempty"`
	Hidden      bool       `json:"hidden,omitempty"`
}

// Script names one guest module and its grants.
type Script struct {
	Name   string  `json:"name" validate:"required"`
	Module string  `json:"module,omitempty"`
	Grants []Grant `json:"grants,omitempty" validate:"dive"`
}

// Grant allows a script to reference one host-provisioned resource by
// name. Access "write" implies "read". Grants never transfer ownership;
// the host keeps the resource alive across script teardowns.
type Grant struct {
	Resource string `json:"resource" validate:"required"`
	Access   string `json:"access" validate:"oneof=read write"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a JSON manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "parse manifest")
	}
	if err := validate.Struct(&m); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "validate manifest")
	}
	// Defaulted rotations/scales: a zero quaternion or zero scale is
	// never what a manifest author means.
	for i := range m.Scene.Nodes {
		n := &m.Scene.Nodes[i]
		if n.Rotation == ([4]float32{}) {
			n.Rotation = [4]float32{0, 0, 0, 1}
		}
		if n.Scale == ([3]float32{}) {
			n.Scale = [3]float32{1, 1, 1}
		}
	}
	return &m, nil
}

// Load reads and parses a manifest from r.
func Load(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read manifest")
	}
	return Parse(data)
}

// LoadFile reads and parses a manifest from disk.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// FindScript returns the named script entry.
func (m *Manifest) FindScript(name string) (*Script, bool) {
	for i := range m.Scripts {
		if m.Scripts[i].Name == name {
			return &m.Scripts[i], true
		}
	}
	return nil, false
}
