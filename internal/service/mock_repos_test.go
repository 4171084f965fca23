package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"fitclub/internal/model"
	"fitclub/internal/notify"
	"fitclub/internal/repository"
	pkgerrors "fitclub/pkg/errors"
)

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	err       error
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, filter repository.LocationFilter) ([]model.Location, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Location
	for _, l := range m.locations {
		if !filter.IncludeInactive && !l.IsActive {
			continue
		}
		if filter.City != "" && l.City != filter.City {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories []model.Category
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	return m.categories, nil
}

// ── Mock ClassScheduleRepository ──

type mockScheduleRepo struct {
	mu        sync.RWMutex
	schedules map[string]*model.ClassSchedule
	err       error
	listCalls int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.ClassSchedule)}
}

func (m *mockScheduleRepo) add(s *model.ClassSchedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ScheduleID] = s
}

func (m *mockScheduleRepo) get(id string) (*model.ClassSchedule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.ClassSchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.get(id); ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter) ([]model.ClassSchedule, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []model.ClassSchedule
	for _, s := range m.schedules {
		if !filter.IncludeInactive && !s.IsActive {
			continue
		}
		if filter.DayOfWeek != 0 && s.DayOfWeek != filter.DayOfWeek {
			continue
		}
		if filter.LocationID != "" && s.LocationID != filter.LocationID {
			continue
		}
		if filter.CategoryID != "" && s.CategoryID() != filter.CategoryID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

// ── Mock ReservationRepository ──
//
// CreateWithinCapacity 在互斥锁内完成“读排期 → 校验 → 计数 → 写入”，
// 与数据库事务持有场次 advisory lock 的效果一致。

type mockReservationRepo struct {
	mu        sync.Mutex
	schedules *mockScheduleRepo
	rows      map[string]*model.Reservation
	seq       int

	// 故障注入：前 transientFailures 次写入返回瞬时错误
	transientFailures int
	createCalls       int
	readErr           error
}

func newMockReservationRepo(schedules *mockScheduleRepo) *mockReservationRepo {
	return &mockReservationRepo{schedules: schedules, rows: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepo) CreateWithinCapacity(_ context.Context, res *model.Reservation, guard repository.ScheduleGuard) (*model.ClassSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.transientFailures > 0 {
		m.transientFailures--
		return nil, fmt.Errorf("%w: 40001 could not serialize access", pkgerrors.ErrTransient)
	}

	schedule, ok := m.schedules.get(res.ScheduleID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if guard != nil {
		if err := guard(schedule); err != nil {
			return nil, err
		}
	}

	var active int
	for _, r := range m.rows {
		if r.ScheduleID != res.ScheduleID || !r.ReservationDate.Equal(res.ReservationDate) || !r.IsActive() {
			continue
		}
		if r.UserID == res.UserID {
			return nil, pkgerrors.ErrDuplicateActive
		}
		active++
	}
	if active >= schedule.Capacity {
		return nil, pkgerrors.ErrCapacityExceeded
	}

	m.seq++
	res.ReservationID = fmt.Sprintf("res-%03d", m.seq)
	res.Status = model.ReservationActive
	res.CreatedAt = time.Date(2024, 6, 1, 8, 0, m.seq, 0, time.UTC)
	cp := *res
	m.rows[res.ReservationID] = &cp
	return schedule, nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) Cancel(_ context.Context, id, cancelledBy string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || !r.IsActive() {
		return false, nil
	}
	now := time.Now()
	r.Status = model.ReservationCancelled
	r.CancelledAt = &now
	r.CancelledBy = &cancelledBy
	return true, nil
}

func (m *mockReservationRepo) CountActive(_ context.Context, scheduleID string, date time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return 0, m.readErr
	}
	var n int64
	for _, r := range m.rows {
		if r.ScheduleID == scheduleID && r.ReservationDate.Equal(date) && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (m *mockReservationRepo) CountActiveBySchedules(_ context.Context, date time.Time, scheduleIDs []string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	want := make(map[string]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		want[id] = true
	}
	counts := make(map[string]int64)
	for _, r := range m.rows {
		if want[r.ScheduleID] && r.ReservationDate.Equal(date) && r.IsActive() {
			counts[r.ScheduleID]++
		}
	}
	return counts, nil
}

func (m *mockReservationRepo) ListActiveByUser(_ context.Context, userID string, filter repository.ReservationFilter) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var result []model.Reservation
	for _, r := range m.rows {
		if r.UserID != userID || !r.IsActive() {
			continue
		}
		if filter.Date != nil && !r.ReservationDate.Equal(*filter.Date) {
			continue
		}
		if filter.Date == nil && filter.From != nil && r.ReservationDate.Before(*filter.From) {
			continue
		}
		cp := *r
		if s, ok := m.schedules.get(r.ScheduleID); ok {
			cp.Schedule = s
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReservationID < result[j].ReservationID })
	return result, nil
}

func (m *mockReservationRepo) ListActiveByOccurrence(_ context.Context, scheduleID string, date time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Reservation
	for _, r := range m.rows {
		if r.ScheduleID == scheduleID && r.ReservationDate.Equal(date) && r.IsActive() {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReservationID < result[j].ReservationID })
	return result, nil
}

// rowCount 台账总行数（含已取消）
func (m *mockReservationRepo) rowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ── Mock BookingPolicyRepository ──

type mockBookingPolicyRepo struct {
	policy *model.BookingPolicy
}

func newMockBookingPolicyRepo() *mockBookingPolicyRepo {
	return &mockBookingPolicyRepo{policy: &model.BookingPolicy{Singleton: true, MaxAdvanceDays: 14}}
}

func (m *mockBookingPolicyRepo) Get(_ context.Context) (*model.BookingPolicy, error) {
	if m.policy == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.policy
	return &cp, nil
}

func (m *mockBookingPolicyRepo) Upsert(_ context.Context, policy *model.BookingPolicy) error {
	cp := *policy
	m.policy = &cp
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	mu    sync.Mutex
	items []*model.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.NotificationID = fmt.Sprintf("n-%d", len(m.items)+1)
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Notification
	for _, n := range m.items {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		all = append(all, *n)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.NotificationID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// ── Mock Notifier ──

type mockNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (m *mockNotifier) Notify(_ context.Context, ev notify.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func (m *mockNotifier) Close() error { return nil }

func (m *mockNotifier) count(typ string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// ── Mock Cache ──

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

// ── 测试夹具 ──

// testFixture 一组共享状态的 mock 仓储
type testFixture struct {
	repo          *repository.Repository
	schedules     *mockScheduleRepo
	reservations  *mockReservationRepo
	policy        *mockBookingPolicyRepo
	notifications *mockNotificationRepo
	locations     *mockLocationRepo
}

func newTestFixture() *testFixture {
	schedules := newMockScheduleRepo()
	f := &testFixture{
		schedules:     schedules,
		reservations:  newMockReservationRepo(schedules),
		policy:        newMockBookingPolicyRepo(),
		notifications: &mockNotificationRepo{},
		locations:     newMockLocationRepo(),
	}
	f.repo = &repository.Repository{
		Location:      f.locations,
		Category:      &mockCategoryRepo{},
		Schedule:      schedules,
		Reservation:   f.reservations,
		BookingPolicy: f.policy,
		Notification:  f.notifications,
	}
	return f
}

// monday 2024-06-03 是周一
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

// fixedNow 业务时区下 2024-06-01（周六）上午
func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
}

// spinSchedule 周一 07:00 的单车课
func spinSchedule(id string, capacity int) *model.ClassSchedule {
	instructor := &model.Instructor{InstructorID: "ins-dana", Name: "Dana"}
	return &model.ClassSchedule{
		ScheduleID:      id,
		TemplateID:      "tpl-spin",
		LocationID:      "loc-downtown",
		DayOfWeek:       1,
		StartTime:       "07:00:00",
		DurationMinutes: 45,
		Capacity:        capacity,
		IsActive:        true,
		Template: &model.ClassTemplate{
			TemplateID: "tpl-spin",
			Name:       "Spin 45",
			CategoryID: "cat-cycling",
			Intensity:  "high",
			Category:   &model.Category{CategoryID: "cat-cycling", Name: "单车"},
			Instructor: instructor,
		},
		Location: &model.Location{LocationID: "loc-downtown", Name: "Downtown", IsActive: true},
	}
}
