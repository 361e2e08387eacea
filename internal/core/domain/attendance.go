package domain

import (
	"errors"
	"fmt"
	"time"
)

// AttendanceStatus classifies a recorded attendance.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
)

var ErrServiceNotFound = errors.New("service not found")
var ErrAlreadyCheckedIn = errors.New("attendance already recorded for this service")
var ErrCheckInNotOpen = errors.New("check-in window is not open yet")
var ErrNoUpcomingService = errors.New("no upcoming service")
var ErrForbidden = errors.New("access forbidden")

// OutOfRangeError is returned when a check-in is attempted from outside the
// venue geofence. It carries both the configured radius and the computed
// distance so the caller can show them to the user.
type OutOfRangeError struct {
	RadiusMeters   float64
	DistanceMeters float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("outside the %.0fm venue radius: current distance %.0fm",
		e.RadiusMeters, e.DistanceMeters)
}

// AttendanceRecord is a single, immutable attendance entry. At most one
// record may exist per (user, service) pair; the ledger enforces this with a
// unique compound index.
type AttendanceRecord struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	UserID         string           `json:"user_id" bson:"user_id"`
	ServiceID      string           `json:"service_id" bson:"service_id"`
	Status         AttendanceStatus `json:"status" bson:"status"`
	Location       Coordinates      `json:"location" bson:"location"`
	DistanceMeters float64          `json:"distance_meters" bson:"distance_meters"`
	CheckedAt      time.Time        `json:"checked_at" bson:"checked_at"`
	Notes          string           `json:"notes,omitempty" bson:"notes,omitempty"`
}

// AutoLateNotes marks records created by the reconciliation sweeper rather
// than by a user check-in.
const AutoLateNotes = "auto-marked late (grace period elapsed)"

// NewAutoLateRecord builds the record the sweeper inserts for a user who
// never checked in: late, pinned to the venue coordinate, distance zero.
func NewAutoLateRecord(userID, serviceID string, venue Coordinates, now time.Time) *AttendanceRecord {
	return &AttendanceRecord{
		UserID:         userID,
		ServiceID:      serviceID,
		Status:         StatusLate,
		Location:       venue,
		DistanceMeters: 0,
		CheckedAt:      now,
		Notes:          AutoLateNotes,
	}
}
