package holiday

import "time"

// Holiday is a calendar day personnel cannot book manually.
type Holiday struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
