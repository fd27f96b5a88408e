// Package scene defines the boundary to the host visual system.
//
// The animation core does not own a renderer. It asks a [Host] to create
// visual nodes parented under existing ones, and later to destroy them or
// move them between attach points. Everything else about the visual system
// (asset loading, drawing, layout) stays on the host's side of this
// boundary.
package scene

import "context"

// AssetRef names a visual asset in the host's asset container.
// The core treats it as opaque.
type AssetRef string

// NodeID identifies a node inside the host scene graph.
type NodeID string

// Vector3 is a point or direction in the host's coordinate space.
type Vector3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Transform is a local placement relative to a parent node.
// Rotation is Euler degrees in the host's axis convention, where Y is the
// vertical axis clock hands rotate around.
type Transform struct {
	Position Vector3 `yaml:"position"`
	Rotation Vector3 `yaml:"rotation"`
	Scale    Vector3 `yaml:"scale"`
}

// Identity returns the no-op transform (zero offset, zero rotation, unit scale).
func Identity() Transform {
	return Transform{Scale: Vector3{X: 1, Y: 1, Z: 1}}
}

// CreateOptions describe one node-creation request.
type CreateOptions struct {
	// Name is a diagnostic label; the host may ignore it.
	Name string

	// Asset is the visual to instantiate for this node.
	Asset AssetRef

	// Parent is the node the new node is created under. Empty means the
	// scene root.
	Parent NodeID

	// Transform is the node's local placement under Parent.
	Transform Transform
}

// Node is a handle to one created visual node.
//
// All methods may suspend while the host acknowledges the request, so they
// take a context. Destroy is idempotent.
type Node interface {
	ID() NodeID

	// Attach reparents the node under another node, typically a wearer's
	// designated attach point.
	Attach(ctx context.Context, parent NodeID) error

	// Detach removes the node from its current parent without destroying it.
	Detach(ctx context.Context) error

	// Destroy releases the node and everything parented under it.
	Destroy(ctx context.Context) error
}

// Host creates visual nodes. It is the core's only way to make something
// visible.
type Host interface {
	CreateNode(ctx context.Context, opts CreateOptions) (Node, error)
}
