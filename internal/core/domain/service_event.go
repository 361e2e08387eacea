package domain

import "time"

// ServiceType tags a scheduled service.
type ServiceType string

const (
	ServiceSunday    ServiceType = "sunday"
	ServiceWednesday ServiceType = "wednesday"
	ServiceFriday    ServiceType = "friday"
	ServiceSpecial   ServiceType = "special"
)

// ServiceEvent is a scheduled gathering attendance is checked against.
// The attendance core never mutates it.
type ServiceEvent struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	Name      string      `json:"name" bson:"name"`
	StartTime time.Time   `json:"start_time" bson:"start_time"`
	Type      ServiceType `json:"type" bson:"type"`
	Active    bool        `json:"active" bson:"active"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// ActivationTime returns the instant the check-in window opens.
func (s *ServiceEvent) ActivationTime(lead time.Duration) time.Time {
	return s.StartTime.Add(-lead)
}

// LateThreshold returns the instant after which a check-in counts as late.
func (s *ServiceEvent) LateThreshold(grace time.Duration) time.Time {
	return s.StartTime.Add(grace)
}

// CheckInOpenAt reports whether the check-in window is open at the given
// instant. The opening boundary is inclusive.
func (s *ServiceEvent) CheckInOpenAt(now time.Time, lead time.Duration) bool {
	return !now.Before(s.ActivationTime(lead))
}
