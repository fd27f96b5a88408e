// Package watch implements wearable timepieces: watch model descriptions,
// the catalog they are dispensed from, and the animation scheduling that
// makes an analog face show true local time.
//
// The scheduling core converts one wall-clock sample into a two-phase
// rotation per hand: a bounded catch-up from the hand's current angle to
// the 0° reference, then a seamless infinite loop at the hand's natural
// cycle length. Keyframe data for identical phases is shared through an
// [animation.ClipCache], so repeated instantiation never rebuilds it.
package watch

import (
	"github.com/go-drift/timepiece/pkg/localtime"
	"github.com/go-drift/timepiece/pkg/scene"
)

// Type tags a watch model variant.
type Type string

const (
	// TypeAnalog is a three-handed analog face. Fully implemented.
	TypeAnalog Type = "analog"
	// TypeDigital is a reserved variant; construction succeeds but
	// starting one fails.
	TypeDigital Type = "digital"
)

// HandName names one rotating pointer of an analog face.
type HandName string

const (
	HandHour   HandName = "hour"
	HandMinute HandName = "minute"
	HandSecond HandName = "second"
)

// HandNames lists all hands of an analog face in display order.
var HandNames = []HandName{HandHour, HandMinute, HandSecond}

// CycleSeconds returns the real-world seconds for one full 360°
// revolution of the hand: 12 hours, one hour, one minute.
func (h HandName) CycleSeconds() float64 {
	switch h {
	case HandHour:
		return 12 * 60 * 60
	case HandMinute:
		return 60 * 60
	case HandSecond:
		return 60
	default:
		return 0
	}
}

// HandSpec describes one hand's visual and its local placement relative to
// the watch face.
type HandSpec struct {
	Asset     scene.AssetRef  `yaml:"asset"`
	Transform scene.Transform `yaml:"transform"`
}

// Spec is the immutable description of one watch model. Specs come from
// the built-in catalog, a catalog file, or a fetched remote catalog, and
// never change after decoding.
type Spec struct {
	// Name is the model's display name and its catalog lookup key.
	Name string `yaml:"name"`

	// Type selects the variant.
	Type Type `yaml:"type"`

	// Asset is the watch body visual.
	Asset scene.AssetRef `yaml:"asset"`

	// Transform is the optional placement of the body under Parent. Nil
	// means identity.
	Transform *scene.Transform `yaml:"transform,omitempty"`

	// Parent is the optional node the body is created under. Empty means
	// the scene root.
	Parent scene.NodeID `yaml:"parent,omitempty"`

	// Owner identifies the wearer. Empty means an unworn display model.
	Owner string `yaml:"owner,omitempty"`

	// Timezone is the IANA zone the face shows. Empty means the fixed
	// default zone.
	Timezone string `yaml:"timezone,omitempty"`

	// Hands maps hand names to their visuals. Required for analog specs;
	// the catalog loader guarantees all three hands are present.
	Hands map[HandName]HandSpec `yaml:"hands,omitempty"`
}

// TimezoneOrDefault returns the spec's timezone, or the fixed default zone
// when none was supplied.
func (s Spec) TimezoneOrDefault() string {
	if s.Timezone == "" {
		return localtime.DefaultTimezone
	}
	return s.Timezone
}

// BaseTransform returns the body placement, defaulting to identity.
func (s Spec) BaseTransform() scene.Transform {
	if s.Transform == nil {
		return scene.Identity()
	}
	return *s.Transform
}

// WithOwner returns a copy of the spec owned by the given wearer. The
// receiver is unchanged.
func (s Spec) WithOwner(owner string) Spec {
	s.Owner = owner
	return s
}

// WithTimezone returns a copy of the spec showing the given zone. The
// receiver is unchanged.
func (s Spec) WithTimezone(tz string) Spec {
	s.Timezone = tz
	return s
}
