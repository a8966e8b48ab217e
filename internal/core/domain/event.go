package domain

// Event is a calendar entry owned by the calendar subsystem. The core only reads it.
type Event struct {
	ID    string `json:"id" bson:"id,omitempty"`
	Title string `json:"title" bson:"title"`
	Date  string `json:"date" bson:"date"` // YYYY-MM-DD
	Time  string `json:"time,omitempty" bson:"time"`
	Type  string `json:"type,omitempty" bson:"type"`
}
