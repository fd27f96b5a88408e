package scenetest

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/go-drift/timepiece/pkg/animation"
	"github.com/go-drift/timepiece/pkg/scene"
)

// Bind records one clip-to-node binding request in call order.
type Bind struct {
	Clip *animation.Clip
	Node scene.NodeID
	Opts animation.PlayOptions
}

// Player is a recording in-memory animation.Player. Bound playbacks stay
// "playing" until explicitly stopped; the fake does not simulate natural
// clip completion, because the scheduling core joins on the authored
// duration rather than on playback events.
type Player struct {
	mu        sync.Mutex
	binds     []Bind
	playbacks []*Playback
	calls     int
	failAt    int
	failErr   error
}

// NewPlayer creates an empty fake player.
func NewPlayer() *Player {
	return &Player{}
}

// FailBindAt makes the n-th Bind call (1-based, counted from now) fail
// with err.
func (p *Player) FailBindAt(n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failAt = p.calls + n
	p.failErr = err
}

// Bind implements animation.Player.
func (p *Player) Bind(_ context.Context, clip *animation.Clip, node scene.NodeID, opts animation.PlayOptions) (animation.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.failAt != 0 && p.calls == p.failAt {
		err := p.failErr
		if err == nil {
			err = errors.New("injected bind failure")
		}
		return nil, err
	}

	pb := &Playback{
		player:  p,
		clip:    clip,
		node:    node,
		opts:    opts,
		playing: opts.Play,
	}
	p.binds = append(p.binds, Bind{Clip: clip, Node: node, Opts: opts})
	p.playbacks = append(p.playbacks, pb)
	return pb, nil
}

// Binds returns a copy of every recorded binding request, in call order.
func (p *Player) Binds() []Bind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Bind, len(p.binds))
	copy(out, p.binds)
	return out
}

// BindsFor returns the recorded bindings targeting one node, in call order.
func (p *Player) BindsFor(node scene.NodeID) []Bind {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Bind
	for _, b := range p.binds {
		if b.Node == node {
			out = append(out, b)
		}
	}
	return out
}

// Active returns how many playbacks are currently playing.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, pb := range p.playbacks {
		if pb.playing {
			n++
		}
	}
	return n
}

// WaitBinds polls until at least n bindings have been recorded or the
// timeout elapses, reporting whether the count was reached. Loop-phase
// bindings are made from a timer goroutine, so tests need a join point.
func (p *Player) WaitBinds(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		p.mu.Lock()
		count := len(p.binds)
		p.mu.Unlock()
		if count >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Playback is a fake binding handle.
type Playback struct {
	player  *Player
	clip    *animation.Clip
	node    scene.NodeID
	opts    animation.PlayOptions
	playing bool
	stops   int
}

// Clip implements animation.Playback.
func (pb *Playback) Clip() *animation.Clip { return pb.clip }

// Duration implements animation.Playback: the authored duration of the
// bound clip.
func (pb *Playback) Duration() time.Duration { return pb.clip.Duration() }

// IsPlaying implements animation.Playback.
func (pb *Playback) IsPlaying() bool {
	pb.player.mu.Lock()
	defer pb.player.mu.Unlock()
	return pb.playing
}

// Stop implements animation.Playback. Stopping twice is a no-op.
func (pb *Playback) Stop() error {
	pb.player.mu.Lock()
	defer pb.player.mu.Unlock()
	pb.playing = false
	pb.stops++
	return nil
}

// Stops returns how many times Stop was called.
func (pb *Playback) Stops() int {
	pb.player.mu.Lock()
	defer pb.player.mu.Unlock()
	return pb.stops
}
