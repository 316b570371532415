package models

import "time"

// Event mirrors the backend event record
type Event struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	Organizer       User      `json:"organizer"`
	Participants    []User    `json:"participants"`
	MaxParticipants int       `json:"maxParticipants,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Images          []string  `json:"images,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsFull is derived from the participant count; events without a cap are
// never full.
func (e Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.Participants) >= e.MaxParticipants
}

// HasParticipant reports whether userID has joined
func (e Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// SpotsLeft returns the remaining capacity, or -1 when uncapped
func (e Event) SpotsLeft() int {
	if e.MaxParticipants <= 0 {
		return -1
	}
	left := e.MaxParticipants - len(e.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// ImageURLs returns the gallery images, falling back to the single imageUrl
func (e Event) ImageURLs() []string {
	if len(e.Images) > 0 {
		return e.Images
	}
	if e.ImageURL != "" {
		return []string{e.ImageURL}
	}
	return nil
}

// IsUpcoming reports whether the event date is after now
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}
