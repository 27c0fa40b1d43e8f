package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

// LocationResolver yields the location in which a user's calendar days are read.
type LocationResolver interface {
	Location(ctx context.Context, userID string) *time.Location
}

func userLocation(ctx context.Context, locations LocationResolver, userID string) *time.Location {
	if locations == nil {
		return time.UTC
	}
	if loc := locations.Location(ctx, userID); loc != nil {
		return loc
	}
	return time.UTC
}

// userToday is the calendar date the user currently sees.
func userToday(ctx context.Context, locations LocationResolver, userID string, now time.Time) time.Time {
	return domain.CalendarDate(now.In(userLocation(ctx, locations, userID)))
}
