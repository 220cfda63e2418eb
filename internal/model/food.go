// Package model defines the data structures shared by the store, the
// aggregation layer, the services and the HTTP/CLI surfaces.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day key used for every log entry (local time).
const DateLayout = "2006-01-02"

// Quantity is a non-negative nutrient amount.
//
// The nutrition provider sends amounts as strings ("95.00") while other
// callers send numbers, so Quantity decodes from either. Anything that is
// missing, null, or not a finite number decodes to 0.
type Quantity float64

// ParseQuantity converts a provider string into a Quantity; blanks and
// garbage become 0.
func ParseQuantity(s string) Quantity {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Quantity(f)
}

// UnmarshalJSON never fails: anything that is not a finite amount decodes to 0.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*q = 0
			return nil
		}
		*q = ParseQuantity(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// booleans, objects and arrays are not amounts
		*q = 0
		return nil
	}
	*q = Quantity(f)
	return nil
}

// Float returns the amount as a float64.
func (q Quantity) Float() float64 { return float64(q) }

// Macros holds the tracked nutrients of one log entry, already multiplied by
// the entry's servings.
type Macros struct {
	Calories Quantity `json:"calories"`
	Fat      Quantity `json:"fat"`
	Protein  Quantity `json:"protein"`
	Sodium   Quantity `json:"sodium"`
	Sugar    Quantity `json:"sugar"`
}

// FoodLogEntry is one recorded instance of a food eaten on a given day.
// Entries are created on search-confirm and removed on delete; they are never
// edited in place.
type FoodLogEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`              // YYYY-MM-DD, local time
	FoodID    string    `json:"food_id,omitempty"` // provider id, empty for manual entries
	FoodName  string    `json:"food_name"`
	Servings  float64   `json:"servings"`
	Macros    Macros    `json:"macros"`
	CreatedAt time.Time `json:"createdAt"`
}
