package coordinator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Candidate key lists are data on purpose: a new API version usually just
// means another name for the same field.
var (
	listingIDKeys     = []string{"id", "listing_id", "uid", "uuid"}
	reservationIDKeys = []string{"id", "reservation_id", "uid", "uuid"}
	startDateKeys     = []string{"start_date", "check_in"}
	endDateKeys       = []string{"end_date", "check_out"}
	guestNameKeys     = []string{"guest_name", "guest_full_name"}
	nestedNameKeys    = []string{"name", "full_name", "first_name"}
	profileURLKeys    = []string{"airbnb_url", "profile_url", "guest_profile_url"}
	guestCountKeys    = []string{"guests_count", "guest_count", "number_of_guests", "guests", "occupants", "occupancy"}
	nestedCountKeys   = []string{"count", "guests_count", "guest_count", "number_of_guests"}
	guestPartKeys     = []string{"adults", "children", "infants", "babies", "kids"}

	cancelledStatuses = map[string]bool{
		"cancelled": true,
		"canceled":  true,
		"void":      true,
		"refused":   true,
	}
)

// stringValue renders a scalar the way the API would have sent it as text.
// Integral floats lose the trailing ".0" that JSON decoding introduces.
func stringValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// firstString returns the first non-empty candidate value as a string
func firstString(record map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if value, ok := record[key]; ok {
			if text := stringValue(value); text != "" {
				return text
			}
		}
	}
	return ""
}

func listingID(record map[string]interface{}) string {
	return firstString(record, listingIDKeys)
}

func reservationID(record map[string]interface{}) string {
	return firstString(record, reservationIDKeys)
}

// reservationListingID resolves the listing a reservation belongs to,
// either from its own field or from a nested listing object
func reservationListingID(record map[string]interface{}) string {
	if id := stringValue(record["listing_id"]); id != "" {
		return id
	}
	if listing, ok := record["listing"].(map[string]interface{}); ok {
		return stringValue(listing["id"])
	}
	return ""
}

// parseDate accepts ISO calendar dates and ISO datetimes (truncated to
// the date). Anything else yields false.
func parseDate(value interface{}) (time.Time, bool) {
	text, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, text); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// dateField returns the first candidate that parses as a date
func dateField(record map[string]interface{}, keys []string) (time.Time, bool) {
	for _, key := range keys {
		if value, ok := record[key]; ok {
			if t, ok := parseDate(value); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// coerceInt converts numbers and numeric strings to an int. Booleans are
// rejected rather than read as 0/1, floats truncate toward zero.
func coerceInt(value interface{}) *int {
	switch v := value.(type) {
	case bool, nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		n := int(f)
		return &n
	default:
		return nil
	}
}

// coerceFloat converts numbers and numeric strings to a float64. Decimal
// commas are accepted, booleans are rejected.
func coerceFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case bool, nil:
		return nil
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case float64:
		return &v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// sumGuestParts adds up guest breakdown fields (adults, children, ...)
// including their pluralized and prefixed variants
func sumGuestParts(container map[string]interface{}) *int {
	total := 0
	found := false
	for _, part := range guestPartKeys {
		variants := []string{part, part + "_count", "guest_" + part, "guest_" + part + "_count"}
		for _, candidate := range variants {
			if value, ok := container[candidate]; ok {
				if n := coerceInt(value); n != nil {
					total += *n
					found = true
				}
			}
		}
	}
	if !found {
		return nil
	}
	return &total
}

// countFromValue turns a count-like value into a number: lists count their
// length, nested objects resolve their own count fields or guest parts
func countFromValue(value interface{}) *int {
	switch v := value.(type) {
	case []interface{}:
		n := len(v)
		return &n
	case map[string]interface{}:
		for _, key := range nestedCountKeys {
			if nested := countFromValue(v[key]); nested != nil {
				return nested
			}
		}
		return sumGuestParts(v)
	default:
		return coerceInt(value)
	}
}

// guestCount resolves the number of guests: direct count fields first,
// then a nested guest object, then summed guest parts
func guestCount(record map[string]interface{}) *int {
	for _, key := range guestCountKeys {
		if value, ok := record[key]; ok {
			if count := countFromValue(value); count != nil {
				return count
			}
		}
	}

	if guest, ok := record["guest"].(map[string]interface{}); ok {
		if count := countFromValue(guest); count != nil {
			return count
		}
	}

	if guests, ok := record["guests"].(map[string]interface{}); ok {
		if count := sumGuestParts(guests); count != nil {
			return count
		}
	}

	return sumGuestParts(record)
}

// guestName resolves the guest name from the reservation or a nested
// guest value, which may be a plain string or an object
func guestName(record map[string]interface{}) string {
	if name := firstString(record, guestNameKeys); name != "" {
		return name
	}
	switch guest := record["guest"].(type) {
	case string:
		return guest
	case map[string]interface{}:
		return firstString(guest, nestedNameKeys)
	}
	return ""
}

func guestProfileURL(record map[string]interface{}) string {
	if url := firstString(record, profileURLKeys); url != "" {
		return url
	}
	if guest, ok := record["guest"].(map[string]interface{}); ok {
		return firstString(guest, profileURLKeys)
	}
	return ""
}

func isCancelled(record map[string]interface{}) bool {
	status := strings.ToLower(stringValue(record["status"]))
	return cancelledStatuses[status]
}

// resolveAmount prefers the reservation's own amount field, falling back
// to the transfer index
func resolveAmount(record map[string]interface{}, amounts map[string]interface{}) *float64 {
	if amount := coerceFloat(record["amount"]); amount != nil {
		return amount
	}
	if len(amounts) == 0 {
		return nil
	}
	id := reservationID(record)
	if id == "" {
		return nil
	}
	return coerceFloat(amounts[id])
}
