package watch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/go-drift/timepiece/pkg/animation"
	"github.com/go-drift/timepiece/pkg/scene"
)

// handPhase tracks where one hand is in its two-phase schedule.
type handPhase int

const (
	phaseCatchingUp handPhase = iota
	phaseLooping
	phaseStopped
)

func (p handPhase) String() string {
	switch p {
	case phaseCatchingUp:
		return "catching-up"
	case phaseLooping:
		return "looping"
	default:
		return "stopped"
	}
}

// handState is the runtime record for one hand: its visual node and the
// currently playing binding. Owned exclusively by the instance.
type handState struct {
	node     scene.Node
	phase    handPhase
	playback animation.Playback
}

// Instance is one live watch: a spec, its base node, and the per-hand
// runtime state. An instance never outlives its visual attachment;
// Remove stops every playback before destroying any node.
type Instance struct {
	id     string
	spec   Spec
	player animation.Player
	cache  *animation.ClipCache
	log    *zap.Logger

	mu    sync.Mutex
	alive bool
	base  scene.Node
	hands map[HandName]*handState
}

func newInstance(spec Spec, base scene.Node, deps Deps) *Instance {
	return &Instance{
		id:     uuid.NewString(),
		spec:   spec,
		player: deps.Player,
		cache:  deps.Cache,
		log:    deps.Log.With(zap.String("watch", spec.Name), zap.String("owner", spec.Owner)),
		alive:  true,
		base:   base,
		hands:  make(map[HandName]*handState, len(HandNames)),
	}
}

// ID returns the instance's unique identity.
func (i *Instance) ID() string { return i.id }

// Spec returns the model description this instance was built from.
func (i *Instance) Spec() Spec { return i.spec }

// Alive reports whether the instance still owns its nodes and may start
// new animation phases.
func (i *Instance) Alive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.alive
}

// ActiveHands returns how many hands currently have a playing binding.
func (i *Instance) ActiveHands() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	n := 0
	for _, hs := range i.hands {
		if hs.playback != nil && hs.playback.IsPlaying() {
			n++
		}
	}
	return n
}

// AttachTo reparents the base node under a wearer's attach point.
func (i *Instance) AttachTo(ctx context.Context, attachPoint scene.NodeID) error {
	i.mu.Lock()
	base, alive := i.base, i.alive
	i.mu.Unlock()
	if !alive {
		return errors.New("attach on a removed watch instance")
	}
	return errors.Wrapf(base.Attach(ctx, attachPoint), "attach watch %s", i.spec.Name)
}

// Detach removes the base node from its current parent without destroying
// the instance.
func (i *Instance) Detach(ctx context.Context) error {
	i.mu.Lock()
	base, alive := i.base, i.alive
	i.mu.Unlock()
	if !alive {
		return nil
	}
	return errors.Wrapf(base.Detach(ctx), "detach watch %s", i.spec.Name)
}

// Stop immediately halts every playing hand animation, whichever phase it
// is in, and prevents any pending loop phase from starting. Stop is
// idempotent.
func (i *Instance) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopLocked()
}

func (i *Instance) stopLocked() {
	if !i.alive {
		return
	}
	i.alive = false
	for hand, hs := range i.hands {
		if hs.phase == phaseStopped {
			continue
		}
		if hs.playback != nil {
			if err := hs.playback.Stop(); err != nil {
				i.log.Warn("stopping hand animation failed",
					zap.String("hand", string(hand)),
					zap.Error(err))
			}
		}
		hs.phase = phaseStopped
	}
	i.log.Debug("watch animations stopped")
}

// Remove stops all animations and then destroys every owned node, hand
// nodes first, base last. Removing an already removed instance is a no-op.
func (i *Instance) Remove(ctx context.Context) error {
	i.mu.Lock()
	wasAlive := i.alive
	i.stopLocked()
	base := i.base
	hands := i.hands
	i.base = nil
	i.hands = make(map[HandName]*handState)
	i.mu.Unlock()

	if !wasAlive && base == nil {
		return nil
	}

	var firstErr error
	for hand, hs := range hands {
		if hs.node == nil {
			continue
		}
		if err := hs.node.Destroy(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "destroy %s hand node", hand)
		}
	}
	if base != nil {
		if err := base.Destroy(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "destroy watch base node")
		}
	}
	if firstErr == nil {
		i.log.Debug("watch instance removed")
	}
	return firstErr
}

// startHand runs phase 1 for one hand and schedules phase 2 behind the
// catch-up clip's authored duration. The hand's node must already be
// registered in i.hands.
func (i *Instance) startHand(ctx context.Context, hand HandName, sample int) error {
	plan := planHand(hand, sample)

	i.mu.Lock()
	node := i.hands[hand].node
	i.mu.Unlock()

	clip, hit := i.cache.GetOrBuild(plan.catchUpKey(), plan.catchUpClip)
	playback, err := i.player.Bind(ctx, clip, node.ID(), animation.PlayOptions{Play: true})
	if err != nil {
		return errors.Wrapf(err, "start %s hand catch-up", hand)
	}

	i.mu.Lock()
	if !i.alive {
		i.mu.Unlock()
		return playback.Stop()
	}
	hs := i.hands[hand]
	hs.playback = playback
	hs.phase = phaseCatchingUp
	i.mu.Unlock()

	i.log.Debug("hand catch-up started",
		zap.String("hand", string(hand)),
		zap.Float64("initAngle", plan.InitAngle),
		zap.Float64("catchUpSeconds", plan.CatchUpSeconds),
		zap.Bool("clipReused", hit))

	// The phase transition is a timer join on the clip's authored
	// duration, not a completion callback from the host.
	go i.loopAfterCatchUp(ctx, hand, plan, playback.Duration())
	return nil
}

// loopAfterCatchUp waits out the catch-up phase and starts the infinite
// loop. The transition re-checks liveness under the lock: once the
// instance has been stopped or removed, the pending continuation is a
// no-op.
func (i *Instance) loopAfterCatchUp(ctx context.Context, hand HandName, plan handPlan, wait time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-animation.After(wait):
	}

	i.mu.Lock()
	hs, ok := i.hands[hand]
	if !i.alive || !ok || hs.phase != phaseCatchingUp {
		i.mu.Unlock()
		return
	}
	node := hs.node
	i.mu.Unlock()

	clip, _ := i.cache.GetOrBuild(plan.loopKey(), plan.loopClip)
	playback, err := i.player.Bind(ctx, clip, node.ID(), animation.PlayOptions{Play: true, Loop: true})
	if err != nil {
		i.log.Warn("starting hand loop failed",
			zap.String("hand", string(hand)),
			zap.Error(err))
		return
	}

	i.mu.Lock()
	if !i.alive || hs.phase != phaseCatchingUp {
		// Stopped while the bind was in flight.
		i.mu.Unlock()
		_ = playback.Stop()
		return
	}
	finished := hs.playback
	hs.playback = playback
	hs.phase = phaseLooping
	i.mu.Unlock()

	// The catch-up clip has run out by now; release its handle.
	if finished != nil {
		_ = finished.Stop()
	}

	i.log.Debug("hand loop started",
		zap.String("hand", string(hand)),
		zap.Float64("fullSeconds", plan.FullSeconds))
}
