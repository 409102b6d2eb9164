package client

import "github.com/fleetrent/service-reservation/internal/domain/reservation"

// DefaultLoyaltyThreshold is the number of completed rentals that makes a
// client loyal.
const DefaultLoyaltyThreshold = 5

// Summary describes a client's rental history.
type Summary struct {
	Active          []*reservation.Reservation
	Past            []*reservation.Reservation
	TotalSpentCents int64
	Loyal           bool
}

// Summarize splits history into active (confirmed) and past (completed)
// reservations. Only completed reservations count towards the amount spent
// and loyalty. A threshold below one falls back to DefaultLoyaltyThreshold.
func Summarize(history []*reservation.Reservation, threshold int) Summary {
	if threshold < 1 {
		threshold = DefaultLoyaltyThreshold
	}
	var s Summary
	for _, r := range history {
		switch r.Status() {
		case reservation.StatusConfirmed:
			s.Active = append(s.Active, r)
		case reservation.StatusCompleted:
			s.Past = append(s.Past, r)
			if p := r.PriceCents(); p != nil {
				s.TotalSpentCents += *p
			}
		}
	}
	s.Loyal = len(s.Past) >= threshold
	return s
}
