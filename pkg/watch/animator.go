package watch

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/timepiece/pkg/animation"
)

const fullCircle = 360.0

// handPlan is the two-phase schedule for one hand derived from a cycle
// sample: a bounded catch-up from the hand's current angle to the wrap
// point, then an infinite loop at the hand's natural rate.
type handPlan struct {
	Hand HandName

	// InitAngle is the hand's current rotational position in degrees,
	// in [0, 360).
	InitAngle float64

	// CatchUpSeconds is the time until the hand next crosses the 0°
	// reference at its natural angular rate.
	CatchUpSeconds float64

	// FullSeconds is the hand's cycle length.
	FullSeconds float64
}

// planHand computes the catch-up geometry for one hand. The catch-up
// always ends exactly at the wrap point: running InitAngle forward for
// CatchUpSeconds at the natural rate lands on 360°.
func planHand(hand HandName, sample int) handPlan {
	full := hand.CycleSeconds()
	initAngle := math.Mod(float64(sample), full) / full * fullCircle
	return handPlan{
		Hand:           hand,
		InitAngle:      initAngle,
		CatchUpSeconds: (fullCircle - initAngle) / fullCircle * full,
		FullSeconds:    full,
	}
}

// CatchUpDuration is the authored length of the catch-up clip.
func (p handPlan) CatchUpDuration() time.Duration {
	return secondsToDuration(p.CatchUpSeconds)
}

// catchUpKey is the shared-cache key for the catch-up clip. Identical
// (hand, angle, duration) phases map to one clip.
func (p handPlan) catchUpKey() string {
	return animation.ClipKey(string(p.Hand), p.InitAngle, p.CatchUpSeconds)
}

// loopKey is the shared-cache key for the loop clip, which depends only on
// the hand's cycle length.
func (p handPlan) loopKey() string {
	return animation.ClipKey(string(p.Hand)+"-loop", 0, p.FullSeconds)
}

// catchUpClip builds the phase-1 clip: InitAngle to 360° over the catch-up
// duration, linear, around the vertical axis.
//
// Rotational interpolation between two keyframes takes the shorter arc, so
// a sweep wider than 180° would visually reverse. When InitAngle < 180 the
// remaining arc exceeds 180° and a midpoint keyframe pins 180° partway
// through to keep the hand moving forward. At InitAngle >= 180 the
// remaining arc already fits in the short path.
func (p handPlan) catchUpClip() *animation.Clip {
	keys := []animation.Keyframe{{At: 0, Angle: p.InitAngle}}
	if p.InitAngle < 180 {
		mid := p.CatchUpSeconds / (fullCircle - p.InitAngle) * (180 - p.InitAngle)
		keys = append(keys, animation.Keyframe{At: secondsToDuration(mid), Angle: 180})
	}
	keys = append(keys, animation.Keyframe{At: p.CatchUpDuration(), Angle: fullCircle})

	name := fmt.Sprintf("hand-%s-catchup-%.3f", p.Hand, p.InitAngle)
	return animation.NewRotationClip(name, animation.AxisY, animation.EasingLinear, keys)
}

// loopClip builds the phase-2 clip: one full 0°→360° revolution over the
// hand's cycle length, played on an infinite loop by the binding.
func (p handPlan) loopClip() *animation.Clip {
	keys := []animation.Keyframe{
		{At: 0, Angle: 0},
		{At: secondsToDuration(p.FullSeconds), Angle: fullCircle},
	}
	name := fmt.Sprintf("hand-%s-loop", p.Hand)
	return animation.NewRotationClip(name, animation.AxisY, animation.EasingLinear, keys)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
