// internal/domain/appointment/entity.go
package appointment

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"

	firstHour = 8
	lastHour  = 20
)

// Request is the booking form of the appointment view.
type Request struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Note  string `json:"note"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a stored booking as returned by the appointments API.
type Appointment struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Note   string `json:"note,omitempty"`
	Status Status `json:"status"`
}

// StatusUpdate is the body of an appointment status change.
type StatusUpdate struct {
	Status Status `json:"status" binding:"required"`
}

// AllowedTimes lists the bookable slots: every half hour from 08:00 to 20:30.
func AllowedTimes() []string {
	slots := make([]string, 0, (lastHour-firstHour+1)*2)
	for h := firstHour; h <= lastHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// IsAllowedTime reports whether slot is one of AllowedTimes.
func IsAllowedTime(slot string) bool {
	for _, s := range AllowedTimes() {
		if s == slot {
			return true
		}
	}
	return false
}

// ParseDate validates the YYYY-MM-DD date of a booking.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}
