package coordinator

import "testing"

func TestAmountsByReservationID(t *testing.T) {
	transfers := []map[string]interface{}{
		{
			"id": "T1",
			"reservations": []interface{}{
				map[string]interface{}{"id": "R1", "amount": 120.5},
				map[string]interface{}{"id": "R2", "amount": "80,0"},
			},
		},
		{
			"id": "T2",
			"reservations": []interface{}{
				map[string]interface{}{"id": "R1", "amount": 200.0},
				map[string]interface{}{"amount": 50.0},
				map[string]interface{}{"id": "R3"},
				"not-a-record",
			},
		},
		{"id": "T3", "reservations": "malformed"},
		{"id": "T4"},
		nil,
	}

	amounts := amountsByReservationID(transfers)

	if got := amounts["R1"]; got != 200.0 {
		t.Errorf("R1 = %v, want last-write 200", got)
	}
	if got := amounts["R2"]; got != "80,0" {
		t.Errorf("R2 = %v, want raw value preserved", got)
	}
	if _, ok := amounts["R3"]; ok {
		t.Error("reservation without amount key must not be indexed")
	}
	if len(amounts) != 2 {
		t.Errorf("index size = %d, want 2", len(amounts))
	}
}

func TestAmountsByReservationIDEmpty(t *testing.T) {
	if got := amountsByReservationID(nil); len(got) != 0 {
		t.Errorf("nil transfers must index nothing, got %v", got)
	}
}
