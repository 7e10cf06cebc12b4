package analytics

import (
	"time"

	"lms-service/internal/domain"
)

// ComputeStats counts visits and quiz attempts inside the filter's window.
// Live users are always taken from the trailing LiveWindow: each distinct
// session counts once and every sessionless visit counts on its own.
func ComputeStats(visits []domain.PageVisit, attempts []domain.QuizAttempt, filter Filter, now time.Time, loc *time.Location) domain.Stats {
	window := FilterWindow(filter, now, loc)
	live := LiveUsersWindow(now)

	stats := domain.Stats{Filter: string(filter)}
	sessions := make(map[string]struct{})
	sessionless := 0
	for _, v := range visits {
		if window.Contains(v.VisitedAt) {
			stats.TotalVisits++
		}
		if !live.Contains(v.VisitedAt) {
			continue
		}
		if v.SessionID == "" {
			sessionless++
			continue
		}
		sessions[v.SessionID] = struct{}{}
	}
	stats.LiveUsers = len(sessions) + sessionless

	for _, a := range attempts {
		if window.Contains(a.StartedAt) {
			stats.TotalQuizAttempts++
		}
	}
	return stats
}
