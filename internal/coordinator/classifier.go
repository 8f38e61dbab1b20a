package coordinator

import (
	"time"

	"github.com/mick111/HostNFlyHA/internal/models"
)

// stay is a reservation with its parsed dates. A nil end means an
// open-ended reservation.
type stay struct {
	record map[string]interface{}
	start  time.Time
	end    *time.Time
}

// eligibleStays drops cancelled reservations and those without a
// resolvable start date
func eligibleStays(reservations []map[string]interface{}) []stay {
	stays := make([]stay, 0, len(reservations))
	for _, record := range reservations {
		if isCancelled(record) {
			continue
		}
		start, ok := dateField(record, startDateKeys)
		if !ok {
			continue
		}
		s := stay{record: record, start: start}
		if end, ok := dateField(record, endDateKeys); ok {
			s.end = &end
		}
		stays = append(stays, s)
	}
	return stays
}

// covers reports whether the stay is active on the given date. The end
// date is exclusive: checkout day counts as free.
func (s stay) covers(day time.Time) bool {
	if s.start.After(day) {
		return false
	}
	return s.end == nil || day.Before(*s.end)
}

// currentStay picks the reservation active today. With overlapping stays
// the earliest start wins; ties keep input order.
func currentStay(stays []stay, today time.Time) *stay {
	var current *stay
	for i := range stays {
		if !stays[i].covers(today) {
			continue
		}
		if current == nil || stays[i].start.Before(current.start) {
			current = &stays[i]
		}
	}
	return current
}

// nextStay picks the soonest reservation starting on or after the
// occupancy-clearing threshold: the current stay's end date, or today
// when nothing is active or the active stay is open-ended. The current
// stay itself is excluded by id so a zero-length stay cannot show up as
// both current and next.
func nextStay(stays []stay, today time.Time, current *stay) *stay {
	threshold := today
	currentID := ""
	if current != nil {
		currentID = reservationID(current.record)
		if current.end != nil {
			threshold = *current.end
		}
	}

	var next *stay
	for i := range stays {
		if stays[i].start.Before(threshold) {
			continue
		}
		if currentID != "" && reservationID(stays[i].record) == currentID {
			continue
		}
		if next == nil || stays[i].start.Before(next.start) {
			next = &stays[i]
		}
	}
	return next
}

// view builds the normalized reservation record exposed downstream
func (s *stay) view(amounts map[string]interface{}) *models.ReservationView {
	if s == nil {
		return nil
	}
	view := &models.ReservationView{
		ReservationID:   reservationID(s.record),
		GuestName:       guestName(s.record),
		GuestCount:      guestCount(s.record),
		GuestProfileURL: guestProfileURL(s.record),
		Source:          stringValue(s.record["source"]),
		Amount:          resolveAmount(s.record, amounts),
		StartDate:       s.start.Format(dateLayout),
	}
	if s.end != nil {
		view.EndDate = s.end.Format(dateLayout)
	}
	return view
}

// Classify derives the current and next reservation for one listing's
// reservations on the given reference date
func Classify(reservations []map[string]interface{}, today time.Time, amounts map[string]interface{}) (current, next *models.ReservationView) {
	stays := eligibleStays(reservations)
	active := currentStay(stays, today)
	upcoming := nextStay(stays, today, active)
	return active.view(amounts), upcoming.view(amounts)
}
