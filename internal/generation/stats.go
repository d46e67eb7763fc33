package generation

import (
	"context"
	"time"

	"sermon-studio/backend/internal/model"
)

// Stats are the dashboard counters derived from an owner's generation list.
type Stats struct {
	SermonsThisMonth     int `json:"sermons_this_month"`
	DevotionalsThisMonth int `json:"devotionals_this_month"`
	TotalGenerations     int `json:"total_generations"`
	ActiveDaysThisMonth  int `json:"active_days_this_month"`
}

// Stats computes the owner's counters from the (cached) generation list.
func (s *Service) Stats(ctx context.Context, owner string) (Stats, error) {
	list, err := s.List(ctx, owner)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(list, time.Now().UTC()), nil
}

// ComputeStats counts this month's sermons and devotionals, the all-time
// total and the distinct days with at least one generation this month.
func ComputeStats(list []model.Generation, now time.Time) Stats {
	stats := Stats{TotalGenerations: len(list)}

	activeDays := make(map[int]bool)
	for _, g := range list {
		created := g.CreatedAt
		if created.Year() != now.Year() || created.Month() != now.Month() {
			continue
		}
		switch g.ContentType {
		case model.ContentTypeSermon:
			stats.SermonsThisMonth++
		case model.ContentTypeDevotional:
			stats.DevotionalsThisMonth++
		}
		activeDays[created.Day()] = true
	}
	stats.ActiveDaysThisMonth = len(activeDays)

	return stats
}
