package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Number accepts a JSON number or a string (decimal commas allowed) and keeps
// its text for validation by the delivery parser.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}

	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = Number(f.String())
	return nil
}

type DeliveryRequest struct {
	Customer  string `json:"customer"`
	Latitude  Number `json:"latitude"`
	Longitude Number `json:"longitude"`
	Priority  string `json:"priority"`
	WeightKg  Number `json:"weight_kg"`
}

type DeliveryResponse struct {
	Customer  string  `json:"customer"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Priority  string  `json:"priority"`
	WeightKg  float64 `json:"weight_kg"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

// RejectedResponse reports a delivery record that failed validation. Row is
// its 1-based position in the request.
type RejectedResponse struct {
	Row      int    `json:"row"`
	Cause    string `json:"cause"`
	Customer string `json:"customer"`
}
