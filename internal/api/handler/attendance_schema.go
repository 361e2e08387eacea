package handler

import (
	"time"

	"github.com/churchops/attendance-system/internal/core/domain"
)

type checkInRequest struct {
	ServiceID string  `json:"service_id" validate:"required"`
	Latitude  float64 `json:"latitude"   validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude"  validate:"gte=-180,lte=180"`
}

type attendanceResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ServiceID      string    `json:"service_id"`
	Status         string    `json:"status"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	DistanceMeters float64   `json:"distance_meters"`
	CheckedAt      time.Time `json:"checked_at"`
	Notes          string    `json:"notes,omitempty"`
}

func toAttendanceResponse(rec *domain.AttendanceRecord) attendanceResponse {
	return attendanceResponse{
		ID:             rec.ID,
		UserID:         rec.UserID,
		ServiceID:      rec.ServiceID,
		Status:         string(rec.Status),
		Latitude:       rec.Location.Lat,
		Longitude:      rec.Location.Lng,
		DistanceMeters: rec.DistanceMeters,
		CheckedAt:      rec.CheckedAt,
		Notes:          rec.Notes,
	}
}

func toAttendanceResponses(records []*domain.AttendanceRecord) []attendanceResponse {
	out := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toAttendanceResponse(rec))
	}
	return out
}
