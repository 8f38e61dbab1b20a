package coordinator

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  time.Time
		ok    bool
	}{
		{"calendar date", "2024-01-05", date(2024, time.January, 5), true},
		{"datetime truncates", "2024-01-05T14:30:00", date(2024, time.January, 5), true},
		{"rfc3339 truncates", "2024-01-05T14:30:00Z", date(2024, time.January, 5), true},
		{"empty string", "", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"number", 20240105.0, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.value)
			if ok != tt.ok {
				t.Fatalf("parseDate(%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseDate(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	if got := coerceInt(true); got != nil {
		t.Errorf("booleans must not coerce to int, got %d", *got)
	}
	if got := coerceInt(3.9); got == nil || *got != 3 {
		t.Errorf("floats must truncate toward zero, got %v", got)
	}
	if got := coerceInt("4.7"); got == nil || *got != 4 {
		t.Errorf("numeric strings must parse then truncate, got %v", got)
	}
	if got := coerceInt(" 2 "); got == nil || *got != 2 {
		t.Errorf("padded numeric strings must parse, got %v", got)
	}
	if got := coerceInt("two"); got != nil {
		t.Errorf("unparsable strings must yield nil, got %d", *got)
	}
	if got := coerceInt(""); got != nil {
		t.Errorf("empty strings must yield nil, got %d", *got)
	}
}

func TestCoerceFloat(t *testing.T) {
	if got := coerceFloat("120,5"); got == nil || *got != 120.5 {
		t.Errorf("decimal-comma strings must parse, got %v", got)
	}
	if got := coerceFloat(42.0); got == nil || *got != 42.0 {
		t.Errorf("floats must pass through, got %v", got)
	}
	if got := coerceFloat(false); got != nil {
		t.Errorf("booleans must not coerce to float, got %f", *got)
	}
}

func TestListingID(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		want   string
	}{
		{"direct id", map[string]interface{}{"id": "L1"}, "L1"},
		{"numeric id", map[string]interface{}{"id": 42.0}, "42"},
		{"fallback listing_id", map[string]interface{}{"listing_id": "L2"}, "L2"},
		{"fallback uuid", map[string]interface{}{"uuid": "abc-def"}, "abc-def"},
		{"priority order", map[string]interface{}{"uid": "U", "id": "L3"}, "L3"},
		{"nothing resolvable", map[string]interface{}{"name": "Loft"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listingID(tt.record); got != tt.want {
				t.Errorf("listingID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReservationListingID(t *testing.T) {
	record := map[string]interface{}{
		"listing": map[string]interface{}{"id": 7.0},
	}
	if got := reservationListingID(record); got != "7" {
		t.Errorf("nested listing id = %q, want %q", got, "7")
	}
	record["listing_id"] = "L9"
	if got := reservationListingID(record); got != "L9" {
		t.Errorf("own field must win over nested, got %q", got)
	}
}

func TestGuestCount(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		want   int
		none   bool
	}{
		{
			"direct count",
			map[string]interface{}{"guests_count": 4.0},
			4, false,
		},
		{
			"list counts its length",
			map[string]interface{}{"guests": []interface{}{
				map[string]interface{}{"name": "a", "adults": 5.0},
				map[string]interface{}{"name": "b"},
			}},
			2, false,
		},
		{
			"nested count object",
			map[string]interface{}{"guests": map[string]interface{}{"count": "3"}},
			3, false,
		},
		{
			"guest parts sum",
			map[string]interface{}{"guest": map[string]interface{}{"adults": 2.0, "children": 1.0}},
			3, false,
		},
		{
			"prefixed part variants",
			map[string]interface{}{"guests": map[string]interface{}{"guest_adults": 2.0, "kids_count": 2.0}},
			4, false,
		},
		{
			"parts on the reservation itself",
			map[string]interface{}{"adults": 1.0, "infants": 1.0},
			2, false,
		},
		{
			"nothing resolvable",
			map[string]interface{}{"guest": map[string]interface{}{"name": "Marie"}},
			0, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guestCount(tt.record)
			if tt.none {
				if got != nil {
					t.Fatalf("guestCount = %d, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("guestCount = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestGuestName(t *testing.T) {
	if got := guestName(map[string]interface{}{"guest": "Paul"}); got != "Paul" {
		t.Errorf("string guest = %q, want Paul", got)
	}
	nested := map[string]interface{}{"guest": map[string]interface{}{"first_name": "Ana"}}
	if got := guestName(nested); got != "Ana" {
		t.Errorf("nested guest name = %q, want Ana", got)
	}
	direct := map[string]interface{}{"guest_name": "Lea", "guest": "ignored"}
	if got := guestName(direct); got != "Lea" {
		t.Errorf("direct field must win, got %q", got)
	}
}

func TestGuestProfileURL(t *testing.T) {
	nested := map[string]interface{}{
		"guest": map[string]interface{}{"profile_url": "https://example.com/p/1"},
	}
	if got := guestProfileURL(nested); got != "https://example.com/p/1" {
		t.Errorf("nested profile url = %q", got)
	}
}

func TestIsCancelled(t *testing.T) {
	for _, status := range []string{"cancelled", "Cancelled", "CANCELED", "void", "Refused"} {
		if !isCancelled(map[string]interface{}{"status": status}) {
			t.Errorf("status %q must be cancelled", status)
		}
	}
	for _, status := range []string{"confirmed", "", "pending"} {
		if isCancelled(map[string]interface{}{"status": status}) {
			t.Errorf("status %q must not be cancelled", status)
		}
	}
	if isCancelled(map[string]interface{}{}) {
		t.Error("missing status must not be cancelled")
	}
}

func TestResolveAmount(t *testing.T) {
	amounts := map[string]interface{}{"R1": 99.0}
	own := map[string]interface{}{"id": "R1", "amount": "120,5"}
	if got := resolveAmount(own, amounts); got == nil || *got != 120.5 {
		t.Errorf("own amount must win over transfer index, got %v", got)
	}
	fromIndex := map[string]interface{}{"id": "R1"}
	if got := resolveAmount(fromIndex, amounts); got == nil || *got != 99.0 {
		t.Errorf("index amount = %v, want 99", got)
	}
	if got := resolveAmount(fromIndex, nil); got != nil {
		t.Errorf("no index must yield nil, got %f", *got)
	}
}
