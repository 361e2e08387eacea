package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests.
// ---------------------------------------------------------------------------

type stubLedger struct {
	records map[string]*domain.AttendanceRecord // key: userID+"/"+serviceID
	nextID  int

	existsErr     error
	insertErr     error
	failServiceID string // InsertIfAbsent errors for this service only
	forceLoseRace bool   // simulate losing the unique-index race
}

func newStubLedger() *stubLedger {
	return &stubLedger{records: make(map[string]*domain.AttendanceRecord)}
}

func ledgerKey(userID, serviceID string) string {
	return userID + "/" + serviceID
}

func (l *stubLedger) ExistsFor(_ context.Context, userID, serviceID string) (bool, error) {
	if l.existsErr != nil {
		return false, l.existsErr
	}
	_, ok := l.records[ledgerKey(userID, serviceID)]
	return ok, nil
}

func (l *stubLedger) InsertIfAbsent(_ context.Context, rec *domain.AttendanceRecord) (bool, error) {
	if l.insertErr != nil {
		return false, l.insertErr
	}
	if l.failServiceID != "" && rec.ServiceID == l.failServiceID {
		return false, errors.New("ledger unavailable")
	}
	if l.forceLoseRace {
		return false, nil
	}
	key := ledgerKey(rec.UserID, rec.ServiceID)
	if _, ok := l.records[key]; ok {
		return false, nil
	}
	l.nextID++
	rec.ID = "att_" + strconv.Itoa(l.nextID)
	l.records[key] = rec
	return true, nil
}

func (l *stubLedger) FindByUser(_ context.Context, userID string) ([]*domain.AttendanceRecord, error) {
	var out []*domain.AttendanceRecord
	for _, r := range l.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *stubLedger) FindByService(_ context.Context, serviceID string) ([]*domain.AttendanceRecord, error) {
	var out []*domain.AttendanceRecord
	for _, r := range l.records {
		if r.ServiceID == serviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *stubLedger) FindAll(_ context.Context) ([]*domain.AttendanceRecord, error) {
	out := make([]*domain.AttendanceRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	return out, nil
}

type stubCatalog struct {
	services map[string]*domain.ServiceEvent
	nextID   int

	findErr   error
	sweepErr  error
	createErr error
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{services: make(map[string]*domain.ServiceEvent)}
}

func (c *stubCatalog) add(svc *domain.ServiceEvent) *domain.ServiceEvent {
	if svc.ID == "" {
		c.nextID++
		svc.ID = "svc_" + strconv.Itoa(c.nextID)
	}
	c.services[svc.ID] = svc
	return svc
}

func (c *stubCatalog) FindByID(_ context.Context, id string) (*domain.ServiceEvent, error) {
	if c.findErr != nil {
		return nil, c.findErr
	}
	svc, ok := c.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

func (c *stubCatalog) FindActive(_ context.Context) ([]*domain.ServiceEvent, error) {
	var out []*domain.ServiceEvent
	for _, svc := range c.services {
		if svc.Active {
			out = append(out, svc)
		}
	}
	sortServices(out)
	return out, nil
}

func (c *stubCatalog) FindAll(_ context.Context) ([]*domain.ServiceEvent, error) {
	out := make([]*domain.ServiceEvent, 0, len(c.services))
	for _, svc := range c.services {
		out = append(out, svc)
	}
	sortServices(out)
	return out, nil
}

func (c *stubCatalog) FindNextUpcoming(_ context.Context, now time.Time) (*domain.ServiceEvent, error) {
	var next *domain.ServiceEvent
	for _, svc := range c.services {
		if !svc.Active || svc.StartTime.Before(now) {
			continue
		}
		if next == nil || svc.StartTime.Before(next.StartTime) {
			next = svc
		}
	}
	if next == nil {
		return nil, domain.ErrNoUpcomingService
	}
	return next, nil
}

func (c *stubCatalog) FindEligibleForLateSweep(_ context.Context, from, to time.Time) ([]*domain.ServiceEvent, error) {
	if c.sweepErr != nil {
		return nil, c.sweepErr
	}
	var out []*domain.ServiceEvent
	for _, svc := range c.services {
		if svc.Active && svc.StartTime.After(from) && !svc.StartTime.After(to) {
			out = append(out, svc)
		}
	}
	sortServices(out)
	return out, nil
}

func (c *stubCatalog) Create(_ context.Context, svc *domain.ServiceEvent) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.add(svc)
	return nil
}

func (c *stubCatalog) ExistsOnDate(_ context.Context, t time.Time) (bool, error) {
	for _, svc := range c.services {
		y1, m1, d1 := svc.StartTime.Date()
		y2, m2, d2 := t.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			return true, nil
		}
	}
	return false, nil
}

func sortServices(services []*domain.ServiceEvent) {
	sort.Slice(services, func(i, j int) bool {
		return services[i].StartTime.Before(services[j].StartTime)
	})
}

type stubUsers struct {
	users      map[string]*domain.User // key: username
	nextID     int
	membersErr error
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: make(map[string]*domain.User)}
}

func (u *stubUsers) add(user *domain.User) *domain.User {
	if user.ID == "" {
		u.nextID++
		user.ID = "user_" + strconv.Itoa(u.nextID)
	}
	u.users[user.Username] = user
	return user
}

func (u *stubUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := u.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (u *stubUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := u.users[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	return u.add(user), nil
}

func (u *stubUsers) FindActiveMembers(_ context.Context) ([]*domain.User, error) {
	if u.membersErr != nil {
		return nil, u.membersErr
	}
	var out []*domain.User
	for _, user := range u.users {
		if user.Active && user.Role == domain.RoleMember {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubRoster struct {
	entries map[string]*domain.PendingUser
	nextID  int
}

func newStubRoster() *stubRoster {
	return &stubRoster{entries: make(map[string]*domain.PendingUser)}
}

func (r *stubRoster) add(entry *domain.PendingUser) *domain.PendingUser {
	if entry.ID == "" {
		r.nextID++
		entry.ID = "roster_" + strconv.Itoa(r.nextID)
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *stubRoster) Create(_ context.Context, entry *domain.PendingUser) (*domain.PendingUser, error) {
	return r.add(entry), nil
}

func (r *stubRoster) FindActive(_ context.Context) ([]*domain.PendingUser, error) {
	var out []*domain.PendingUser
	for _, e := range r.entries {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubRoster) FindByID(_ context.Context, id string) (*domain.PendingUser, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrRosterEntryNotFound
	}
	return e, nil
}

func (r *stubRoster) FindActiveByPhone(_ context.Context, phone string) (*domain.PendingUser, error) {
	for _, e := range r.entries {
		if e.Active && e.Phone == phone {
			return e, nil
		}
	}
	return nil, domain.ErrRosterEntryNotFound
}

func (r *stubRoster) FindActiveByEmail(_ context.Context, email string) (*domain.PendingUser, error) {
	for _, e := range r.entries {
		if e.Active && e.Email == email {
			return e, nil
		}
	}
	return nil, domain.ErrRosterEntryNotFound
}

func (r *stubRoster) Deactivate(_ context.Context, id string) error {
	e, ok := r.entries[id]
	if !ok {
		return domain.ErrRosterEntryNotFound
	}
	e.Active = false
	return nil
}

type stubMarker struct {
	claimed map[string]bool
	err     error
}

func newStubMarker() *stubMarker {
	return &stubMarker{claimed: make(map[string]bool)}
}

func (m *stubMarker) TryAcquire(_ context.Context, serviceID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.claimed[serviceID] {
		return false, nil
	}
	m.claimed[serviceID] = true
	return true, nil
}
