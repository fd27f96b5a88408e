package localtime

import (
	"context"

	"go.uber.org/zap"
)

// Resolver maps a wearer's network-derived geolocation to an IANA timezone
// name. Implementations live outside this module (reverse-geocoding
// services, host platform APIs).
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// FixedResolver answers every lookup with one zone. Useful as a fallback
// and in tests.
type FixedResolver string

// Resolve implements Resolver.
func (r FixedResolver) Resolve(context.Context, float64, float64) (string, error) {
	return string(r), nil
}

// ResolveOrDefault resolves a timezone for the given coordinates, falling
// back to DefaultTimezone when the resolver is nil, fails, or returns an
// empty name. Resolution failure is recovered, never surfaced.
func ResolveOrDefault(ctx context.Context, r Resolver, lat, lon float64, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}
	if r == nil {
		return DefaultTimezone
	}
	tz, err := r.Resolve(ctx, lat, lon)
	if err != nil {
		log.Warn("timezone resolution failed, using default",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return DefaultTimezone
	}
	if tz == "" {
		return DefaultTimezone
	}
	return tz
}
