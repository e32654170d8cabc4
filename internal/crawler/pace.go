package crawler

import (
	"time"

	"golang.org/x/time/rate"
)

// GitHub's published quotas translate to minimum spacing between requests.
// Search endpoints are metered far tighter than core reads, and both relax
// once a credential is present.
const (
	anonSearchGap = 6500 * time.Millisecond
	anonCoreGap   = 2 * time.Second
	authSearchGap = 2200 * time.Millisecond
	authCoreGap   = 800 * time.Millisecond
)

// Pacing serializes logical requests against the two quota pools. The crawl
// is deliberately sequential; the limits are per-credential, so fan-out would
// only move the waiting around.
type Pacing struct {
	Search *rate.Limiter
	Core   *rate.Limiter
}

func NewPacing(authenticated bool) Pacing {
	if authenticated {
		return Pacing{
			Search: rate.NewLimiter(rate.Every(authSearchGap), 1),
			Core:   rate.NewLimiter(rate.Every(authCoreGap), 1),
		}
	}
	return Pacing{
		Search: rate.NewLimiter(rate.Every(anonSearchGap), 1),
		Core:   rate.NewLimiter(rate.Every(anonCoreGap), 1),
	}
}

// Unmetered removes all pacing; tests use it to keep runs instant.
func Unmetered() Pacing {
	return Pacing{
		Search: rate.NewLimiter(rate.Inf, 1),
		Core:   rate.NewLimiter(rate.Inf, 1),
	}
}
