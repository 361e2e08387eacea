package ports

import (
	"context"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// AttendanceRepository is the attendance ledger. It owns the at-most-one
// record per (user, service) invariant via an atomic insert-if-absent.
type AttendanceRepository interface {
	// ExistsFor reports whether a record already exists for the pair.
	ExistsFor(ctx context.Context, userID, serviceID string) (bool, error)

	// InsertIfAbsent inserts the record unless one already exists for its
	// (user, service) pair. Returns true if this call won the insert; a
	// rejected duplicate is not an error.
	InsertIfAbsent(ctx context.Context, record *domain.AttendanceRecord) (bool, error)

	FindByUser(ctx context.Context, userID string) ([]*domain.AttendanceRecord, error)
	FindByService(ctx context.Context, serviceID string) ([]*domain.AttendanceRecord, error)
	FindAll(ctx context.Context) ([]*domain.AttendanceRecord, error)
}
