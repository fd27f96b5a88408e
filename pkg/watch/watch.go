package watch

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/go-drift/timepiece/pkg/animation"
	"github.com/go-drift/timepiece/pkg/localtime"
	"github.com/go-drift/timepiece/pkg/scene"
)

// ErrDigitalUnsupported is returned when starting the reserved digital
// variant.
var ErrDigitalUnsupported = errors.New("digital watches are not implemented")

// Deps are the external collaborators a watch needs to come alive.
type Deps struct {
	// Host creates and destroys visual nodes.
	Host scene.Host

	// Player binds clip data to nodes.
	Player animation.Player

	// Cache shares clip data across instances. Scoped to the asset
	// container, not to any watch.
	Cache *animation.ClipCache

	// Sampler reads local wall-clock time.
	Sampler *localtime.Sampler

	// Log receives lifecycle events. Nil means no logging.
	Log *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Sampler == nil {
		d.Sampler = localtime.NewSampler(d.Log)
	}
	if d.Cache == nil {
		d.Cache = animation.NewClipCache()
	}
	return d
}

// Watch is one wearable timepiece variant. The variant set is finite and
// closed: New returns the implementation for a spec's type tag.
type Watch interface {
	// Spec returns the model description.
	Spec() Spec

	// Start creates the watch's nodes and begins animating. Startup is
	// all-or-nothing: if any hand fails to start, everything already
	// created is torn down and an error is returned.
	Start(ctx context.Context) (*Instance, error)
}

// New returns the watch variant for the spec's type.
func New(spec Spec, deps Deps) (Watch, error) {
	deps = deps.withDefaults()
	switch spec.Type {
	case TypeAnalog:
		return &Analog{spec: spec, deps: deps}, nil
	case TypeDigital:
		return &Digital{spec: spec}, nil
	default:
		return nil, errors.Errorf("unknown watch type %q", spec.Type)
	}
}

// Analog is a three-handed analog watch.
type Analog struct {
	spec Spec
	deps Deps
}

// Spec implements Watch.
func (a *Analog) Spec() Spec { return a.spec }

// Start creates the base and hand nodes, samples local time once, and
// fans out the three independent hand pipelines. Each hand derives its own
// phase from the same sample, so no cross-hand synchronization is needed.
func (a *Analog) Start(ctx context.Context) (*Instance, error) {
	base, err := a.deps.Host.CreateNode(ctx, scene.CreateOptions{
		Name:      a.spec.Name,
		Asset:     a.spec.Asset,
		Parent:    a.spec.Parent,
		Transform: a.spec.BaseTransform(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create base node for watch %s", a.spec.Name)
	}

	inst := newInstance(a.spec, base, a.deps)
	sample := a.deps.Sampler.Sample(a.spec.TimezoneOrDefault())

	for _, hand := range HandNames {
		handSpec := a.spec.Hands[hand]
		node, err := a.deps.Host.CreateNode(ctx, scene.CreateOptions{
			Name:      a.spec.Name + "/" + string(hand),
			Asset:     handSpec.Asset,
			Parent:    base.ID(),
			Transform: handSpec.Transform,
		})
		if err != nil {
			_ = inst.Remove(ctx)
			return nil, errors.Wrapf(err, "create %s hand node for watch %s", hand, a.spec.Name)
		}
		inst.mu.Lock()
		inst.hands[hand] = &handState{node: node, phase: phaseStopped}
		inst.mu.Unlock()
	}

	// Hand startup is all-or-nothing: one failed pipeline tears the
	// whole instance down so no running hand is left orphaned.
	for _, hand := range HandNames {
		if err := inst.startHand(ctx, hand, sample); err != nil {
			_ = inst.Remove(ctx)
			return nil, errors.Wrapf(err, "watch %s", a.spec.Name)
		}
	}

	a.deps.Log.Info("watch started",
		zap.String("watch", a.spec.Name),
		zap.String("owner", a.spec.Owner),
		zap.String("timezone", a.spec.TimezoneOrDefault()),
		zap.Int("sample", sample))
	return inst, nil
}

// Digital is the reserved non-analog variant. Specs may declare it, and
// the catalog accepts it, but starting one fails.
type Digital struct {
	spec Spec
}

// Spec implements Watch.
func (d *Digital) Spec() Spec { return d.spec }

// Start implements Watch. It always fails with ErrDigitalUnsupported.
func (d *Digital) Start(context.Context) (*Instance, error) {
	return nil, errors.Wrapf(ErrDigitalUnsupported, "watch %s", d.spec.Name)
}
