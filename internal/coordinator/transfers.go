package coordinator

// amountsByReservationID indexes settled amounts by reservation id by
// scanning the embedded reservations of each transfer. The endpoint is
// best-effort: malformed records are skipped, never fatal. Later
// transfers overwrite earlier ones for the same id.
func amountsByReservationID(transfers []map[string]interface{}) map[string]interface{} {
	amounts := make(map[string]interface{})
	for _, transfer := range transfers {
		if transfer == nil {
			continue
		}
		reservations, ok := transfer["reservations"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range reservations {
			record, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			id := reservationID(record)
			if id == "" {
				continue
			}
			if amount, ok := record["amount"]; ok {
				amounts[id] = amount
			}
		}
	}
	return amounts
}
