//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fitclub/internal/model"
	"fitclub/internal/repository"
	"fitclub/pkg/database"
	pkgerrors "fitclub/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=fitclub password=fitclub_password dbname=fitclub_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用正式迁移建表，部分唯一索引与 CHECK 约束才与生产一致
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// monday 2024-06-03 是周一
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

// setupSchedule 创建一条周一 07:00、容量为 capacity 的排期并返回清理函数
func setupSchedule(t *testing.T, capacity int) (*model.ClassSchedule, func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	loc := &model.Location{Name: fmt.Sprintf("测试场馆-%d", suffix), IsActive: true}
	cat := &model.Category{Name: fmt.Sprintf("测试类别-%d", suffix), IsActive: true}
	ins := &model.Instructor{Name: "Dana", IsActive: true}
	for _, v := range []interface{}{loc, cat, ins} {
		if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
			t.Fatalf("创建目录数据失败: %v", err)
		}
	}

	tpl := &model.ClassTemplate{
		Name:            "Spin 45",
		CategoryID:      cat.CategoryID,
		DurationMinutes: 45,
		Intensity:       "high",
		InstructorID:    ins.InstructorID,
		LocationID:      loc.LocationID,
		IsActive:        true,
	}
	if err := testDB.WithContext(ctx).Create(tpl).Error; err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}

	sch := &model.ClassSchedule{
		TemplateID:      tpl.TemplateID,
		LocationID:      loc.LocationID,
		DayOfWeek:       1,
		StartTime:       "07:00",
		DurationMinutes: 45,
		Capacity:        capacity,
		IsActive:        true,
	}
	if err := testDB.WithContext(ctx).Create(sch).Error; err != nil {
		t.Fatalf("创建排期失败: %v", err)
	}

	cleanup := func() {
		testDB.Exec("DELETE FROM reservations WHERE schedule_id = ?", sch.ScheduleID)
		testDB.Exec("DELETE FROM class_schedules WHERE schedule_id = ?", sch.ScheduleID)
		testDB.Exec("DELETE FROM class_templates WHERE template_id = ?", tpl.TemplateID)
		testDB.Exec("DELETE FROM instructors WHERE instructor_id = ?", ins.InstructorID)
		testDB.Exec("DELETE FROM categories WHERE category_id = ?", cat.CategoryID)
		testDB.Exec("DELETE FROM locations WHERE location_id = ?", loc.LocationID)
	}
	return sch, cleanup
}

func newReservation(userID, scheduleID string) *model.Reservation {
	return &model.Reservation{UserID: userID, ScheduleID: scheduleID, ReservationDate: monday}
}

// ═══════════════════════════════════════════════════════════
// Reservation Ledger
// ═══════════════════════════════════════════════════════════

func TestReservation_CreateAndCount(t *testing.T) {
	sch, cleanup := setupSchedule(t, 2)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()

	res := newReservation("u1", sch.ScheduleID)
	if _, err := repo.CreateWithinCapacity(ctx, res, nil); err != nil {
		t.Fatalf("预约失败: %v", err)
	}
	if res.ReservationID == "" {
		t.Error("期望生成 reservation_id")
	}

	count, err := repo.CountActive(ctx, sch.ScheduleID, monday)
	if err != nil {
		t.Fatalf("计数失败: %v", err)
	}
	if count != 1 {
		t.Errorf("期望 1 条有效预约，实际 %d", count)
	}
}

func TestReservation_DuplicateActive(t *testing.T) {
	sch, cleanup := setupSchedule(t, 5)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()

	if _, err := repo.CreateWithinCapacity(ctx, newReservation("u1", sch.ScheduleID), nil); err != nil {
		t.Fatalf("首次预约失败: %v", err)
	}
	_, err := repo.CreateWithinCapacity(ctx, newReservation("u1", sch.ScheduleID), nil)
	if !errors.Is(err, pkgerrors.ErrDuplicateActive) {
		t.Errorf("期望 ErrDuplicateActive，实际: %v", err)
	}
}

func TestReservation_UniqueIndexBackstop(t *testing.T) {
	sch, cleanup := setupSchedule(t, 5)
	defer cleanup()

	ctx := context.Background()
	if err := testDB.WithContext(ctx).Create(newReservation("u1", sch.ScheduleID)).Error; err != nil {
		t.Fatalf("直接写入失败: %v", err)
	}

	// 绕过应用层检查，唯一索引仍须拒绝第二条 active 记录
	repo := repository.NewReservationRepo(testDB)
	err := testDB.WithContext(ctx).Create(newReservation("u1", sch.ScheduleID)).Error
	if err == nil {
		t.Fatal("期望唯一索引拒绝重复 active 预约")
	}
	if _, err := repo.CreateWithinCapacity(ctx, newReservation("u1", sch.ScheduleID), nil); !errors.Is(err, pkgerrors.ErrDuplicateActive) {
		t.Errorf("期望 ErrDuplicateActive，实际: %v", err)
	}
}

func TestReservation_CapacityUnderConcurrency(t *testing.T) {
	sch, cleanup := setupSchedule(t, 3)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, full := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateWithinCapacity(ctx, newReservation(fmt.Sprintf("user-%d", i), sch.ScheduleID), nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, pkgerrors.ErrCapacityExceeded):
				full++
			default:
				t.Errorf("非预期错误: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 3 {
		t.Errorf("期望恰好 3 个成功，实际 %d", succeeded)
	}
	if full != workers-3 {
		t.Errorf("期望 %d 个名额已满，实际 %d", workers-3, full)
	}

	count, _ := repo.CountActive(ctx, sch.ScheduleID, monday)
	if count != 3 {
		t.Errorf("期望有效预约数 3，实际 %d", count)
	}
}

func TestReservation_CancelReleasesSeat(t *testing.T) {
	sch, cleanup := setupSchedule(t, 1)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()

	first := newReservation("u1", sch.ScheduleID)
	if _, err := repo.CreateWithinCapacity(ctx, first, nil); err != nil {
		t.Fatalf("预约失败: %v", err)
	}
	if _, err := repo.CreateWithinCapacity(ctx, newReservation("u2", sch.ScheduleID), nil); !errors.Is(err, pkgerrors.ErrCapacityExceeded) {
		t.Fatalf("期望 ErrCapacityExceeded，实际: %v", err)
	}

	changed, err := repo.Cancel(ctx, first.ReservationID, "u1")
	if err != nil || !changed {
		t.Fatalf("取消失败: changed=%v err=%v", changed, err)
	}

	changed, err = repo.Cancel(ctx, first.ReservationID, "u1")
	if err != nil || changed {
		t.Errorf("重复取消应为无变化的成功: changed=%v err=%v", changed, err)
	}

	if _, err := repo.CreateWithinCapacity(ctx, newReservation("u2", sch.ScheduleID), nil); err != nil {
		t.Errorf("释放名额后预约应成功: %v", err)
	}

	// 不存在的预约取消为无操作
	if _, err := repo.Cancel(ctx, "00000000-0000-0000-0000-000000000000", "u1"); err != nil {
		t.Errorf("取消不存在的预约应成功: %v", err)
	}
}

func TestReservation_GuardAborts(t *testing.T) {
	sch, cleanup := setupSchedule(t, 5)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()
	errGuard := errors.New("guard")

	_, err := repo.CreateWithinCapacity(ctx, newReservation("u1", sch.ScheduleID), func(s *model.ClassSchedule) error {
		if s.DayOfWeek != 1 {
			t.Errorf("期望持锁读取到 day_of_week=1，实际 %d", s.DayOfWeek)
		}
		return errGuard
	})
	if !errors.Is(err, errGuard) {
		t.Errorf("期望 guard 错误透传，实际: %v", err)
	}

	count, _ := repo.CountActive(ctx, sch.ScheduleID, monday)
	if count != 0 {
		t.Errorf("guard 拒绝后不应写入，实际 %d", count)
	}
}

func TestReservation_ListAndBatchCount(t *testing.T) {
	sch, cleanup := setupSchedule(t, 5)
	defer cleanup()

	repo := repository.NewReservationRepo(testDB)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2"} {
		if _, err := repo.CreateWithinCapacity(ctx, newReservation(u, sch.ScheduleID), nil); err != nil {
			t.Fatalf("预约失败: %v", err)
		}
	}

	counts, err := repo.CountActiveBySchedules(ctx, monday, []string{sch.ScheduleID})
	if err != nil {
		t.Fatalf("批量计数失败: %v", err)
	}
	if counts[sch.ScheduleID] != 2 {
		t.Errorf("期望 2，实际 %d", counts[sch.ScheduleID])
	}

	mine, err := repo.ListActiveByUser(ctx, "u1", repository.ReservationFilter{Date: &monday})
	if err != nil {
		t.Fatalf("查询我的预约失败: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(mine))
	}
	if mine[0].Schedule == nil || mine[0].Schedule.ClassName() != "Spin 45" {
		t.Error("期望预加载排期与模板")
	}

	roster, err := repo.ListActiveByOccurrence(ctx, sch.ScheduleID, monday)
	if err != nil {
		t.Fatalf("查询名单失败: %v", err)
	}
	if len(roster) != 2 {
		t.Errorf("期望名单 2 人，实际 %d", len(roster))
	}
}

// ═══════════════════════════════════════════════════════════
// Catalog
// ═══════════════════════════════════════════════════════════

func TestClassSchedule_ListFilters(t *testing.T) {
	sch, cleanup := setupSchedule(t, 5)
	defer cleanup()

	repo := repository.NewClassScheduleRepo(testDB)
	ctx := context.Background()

	list, err := repo.List(ctx, repository.ScheduleFilter{DayOfWeek: 1, LocationID: sch.LocationID})
	if err != nil {
		t.Fatalf("查询排期失败: %v", err)
	}
	if len(list) != 1 || list[0].ScheduleID != sch.ScheduleID {
		t.Fatalf("期望命中测试排期，实际 %d 条", len(list))
	}

	list, err = repo.List(ctx, repository.ScheduleFilter{DayOfWeek: 2, LocationID: sch.LocationID})
	if err != nil {
		t.Fatalf("查询排期失败: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("周二不应命中周一排期，实际 %d 条", len(list))
	}

	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("非法 UUID 应按不存在处理，实际: %v", err)
	}
}
