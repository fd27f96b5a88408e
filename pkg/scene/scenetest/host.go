// Package scenetest provides in-memory fakes for the host scene and
// animation systems. They record every request so tests (and the wristsim
// demo) can assert node lifecycles and playback schedules without a real
// renderer.
package scenetest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/go-drift/timepiece/pkg/scene"
)

// Host is a recording in-memory scene.Host.
type Host struct {
	mu      sync.Mutex
	nodes   map[scene.NodeID]*Node
	created int
	calls   int
	failAt  int
	failErr error
}

// NewHost creates an empty fake host.
func NewHost() *Host {
	return &Host{nodes: make(map[scene.NodeID]*Node)}
}

// FailCreateAt makes the n-th CreateNode call (1-based, counted from now)
// fail with err.
func (h *Host) FailCreateAt(n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failAt = h.calls + n
	h.failErr = err
}

// CreateNode implements scene.Host.
func (h *Host) CreateNode(_ context.Context, opts scene.CreateOptions) (scene.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++
	if h.failAt != 0 && h.calls == h.failAt {
		err := h.failErr
		if err == nil {
			err = errors.New("injected node creation failure")
		}
		return nil, err
	}

	node := &Node{
		host:      h,
		id:        scene.NodeID(uuid.NewString()),
		Name:      opts.Name,
		Asset:     opts.Asset,
		Parent:    opts.Parent,
		Transform: opts.Transform,
	}
	h.nodes[node.id] = node
	h.created++
	return node, nil
}

// Created returns how many nodes were ever created.
func (h *Host) Created() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

// LiveNodes returns the nodes that exist and are not destroyed.
func (h *Host) LiveNodes() []*Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	live := make([]*Node, 0, len(h.nodes))
	for _, n := range h.nodes {
		if !n.destroyed {
			live = append(live, n)
		}
	}
	return live
}

// NodeNamed returns the first node created with the given name, destroyed
// or not, or nil.
func (h *Host) NodeNamed(name string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, n := range h.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Node is a fake scene node recording its placement and lifecycle.
type Node struct {
	host *Host
	id   scene.NodeID

	Name      string
	Asset     scene.AssetRef
	Parent    scene.NodeID
	Transform scene.Transform

	destroyed bool
}

// ID implements scene.Node.
func (n *Node) ID() scene.NodeID { return n.id }

// Attach implements scene.Node.
func (n *Node) Attach(_ context.Context, parent scene.NodeID) error {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	if n.destroyed {
		return errors.New("attach on destroyed node")
	}
	n.Parent = parent
	return nil
}

// Detach implements scene.Node.
func (n *Node) Detach(context.Context) error {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	if n.destroyed {
		return errors.New("detach on destroyed node")
	}
	n.Parent = ""
	return nil
}

// Destroy implements scene.Node. Destroying twice is a no-op.
func (n *Node) Destroy(context.Context) error {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	n.destroyed = true
	return nil
}

// Destroyed reports whether the node has been destroyed.
func (n *Node) Destroyed() bool {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	return n.destroyed
}
