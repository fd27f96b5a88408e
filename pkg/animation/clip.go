// Package animation provides the keyframe animation data model and the
// binding boundary to the host animation system.
//
// A [Clip] is reusable animation data: a named rotation track independent
// of any visual node. Clips are registered once, cached per asset
// container in a [ClipCache], and bound to individual nodes through a
// [Player], which yields a per-node [Playback] handle. Data is shared;
// binding and playback state never are.
package animation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/timepiece/pkg/scene"
)

// Axis identifies the local rotation axis of a track.
type Axis int

const (
	// AxisX rotates around the local X axis.
	AxisX Axis = iota
	// AxisY rotates around the local Y axis, the vertical axis in the
	// host convention. Clock hands rotate around it.
	AxisY
	// AxisZ rotates around the local Z axis.
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Keyframe pins a rotation angle, in degrees, at an offset within a clip.
type Keyframe struct {
	At    time.Duration
	Angle float64
}

// RotationTrack is a sequence of keyframes around one axis with one easing
// applied between neighbors. Keyframes are ordered by ascending At.
type RotationTrack struct {
	Axis   Axis
	Easing Easing
	Keys   []Keyframe
}

// Clip is reusable keyframe animation data with a unique name. It carries
// a single rotation track; the host interpolates between keyframes per the
// track's easing. The same clip may be bound to any number of nodes.
type Clip struct {
	Name  string
	Track RotationTrack
}

// NewRotationClip builds a clip from ordered keyframes.
func NewRotationClip(name string, axis Axis, easing Easing, keys []Keyframe) *Clip {
	return &Clip{
		Name: name,
		Track: RotationTrack{
			Axis:   axis,
			Easing: easing,
			Keys:   keys,
		},
	}
}

// Duration returns the authored length of the clip: the time of its last
// keyframe. An empty clip has duration zero.
func (c *Clip) Duration() time.Duration {
	if len(c.Track.Keys) == 0 {
		return 0
	}
	return c.Track.Keys[len(c.Track.Keys)-1].At
}

// AngleAt evaluates the track at offset t, interpolating between the
// surrounding keyframes with the track's easing. Offsets before the first
// keyframe clamp to it; offsets past the last clamp to the last.
func (c *Clip) AngleAt(t time.Duration) float64 {
	keys := c.Track.Keys
	if len(keys) == 0 {
		return 0
	}
	if t <= keys[0].At {
		return keys[0].Angle
	}
	last := keys[len(keys)-1]
	if t >= last.At {
		return last.Angle
	}

	curve := CurveFor(c.Track.Easing)
	for i := 1; i < len(keys); i++ {
		if t > keys[i].At {
			continue
		}
		prev, next := keys[i-1], keys[i]
		span := next.At - prev.At
		if span <= 0 {
			return next.Angle
		}
		progress := float64(t-prev.At) / float64(span)
		return prev.Angle + (next.Angle-prev.Angle)*curve(progress)
	}
	return last.Angle
}

// PlayOptions control how a bound clip starts on its node.
type PlayOptions struct {
	// Play starts playback immediately on bind.
	Play bool
	// Loop repeats the clip indefinitely instead of stopping at its
	// authored duration.
	Loop bool
}

// Playback is the per-node handle for one bound clip.
type Playback interface {
	// Clip returns the underlying shared data.
	Clip() *Clip

	// Duration is the authored duration of the underlying clip, as read
	// back from the binding.
	Duration() time.Duration

	// IsPlaying reports whether the binding is currently playing.
	IsPlaying() bool

	// Stop halts playback. Stopping an already stopped playback is a
	// no-op.
	Stop() error
}

// Player is the host animation system: it binds shared clip data to a
// specific node with explicit play and loop flags. Binding may suspend
// while the host starts playback, so it takes a context.
type Player interface {
	Bind(ctx context.Context, clip *Clip, node scene.NodeID, opts PlayOptions) (Playback, error)
}
