//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "ampa-activity/pkg/errors"

	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=ampa password=ampa_password dbname=ampa_activity_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 与生产一致，使用嵌入的迁移脚本建表
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	cal     *model.SchoolCalendar
	typ     *model.ActivityType
	anna    *model.Member
	product *model.Product
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (fx fixture, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	fx.cal = &model.SchoolCalendar{
		Name:      fmt.Sprintf("Curs-%d", suffix),
		DateStart: day(2031, 9, 1),
		DateEnd:   day(2032, 6, 30),
	}
	fx.typ = &model.ActivityType{Name: fmt.Sprintf("Acollida-%d", suffix)}
	fx.anna = &model.Member{Name: fmt.Sprintf("Anna-%d", suffix), PartnerType: model.PartnerTypeStudent}
	fx.product = &model.Product{Name: fmt.Sprintf("Matinal-%d", suffix), ListPrice: 3.5}

	for _, v := range []interface{}{fx.cal, fx.typ, fx.anna, fx.product} {
		if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
			t.Fatalf("创建基础数据失败: %v", err)
		}
	}

	cleanup = func() {
		testDB.Where("activity_type_id = ?", fx.typ.ActivityTypeID).Delete(&model.ActivityEvent{})
		testDB.Where("activity_type_id = ?", fx.typ.ActivityTypeID).Delete(&model.ActivityType{})
		testDB.Where("member_id = ?", fx.anna.MemberID).Delete(&model.Member{})
		testDB.Where("product_id = ?", fx.product.ProductID).Delete(&model.Product{})
		testDB.Where("school_calendar_id = ?", fx.cal.SchoolCalendarID).Delete(&model.SchoolCalendar{})
	}
	return
}

func createEvent(t *testing.T, repo *repository.Repository, fx fixture, date time.Time, withAnna bool) *model.ActivityEvent {
	t.Helper()
	ctx := context.Background()

	calID := fx.cal.SchoolCalendarID
	event := &model.ActivityEvent{
		Name:             fx.typ.Name + " - " + date.Format("02/01/2006"),
		ActivityTypeID:   fx.typ.ActivityTypeID,
		DateStart:        date,
		DateStop:         date,
		AllDay:           true,
		State:            model.EventStateOpen,
		SchoolCalendarID: &calID,
	}
	if err := repo.ActivityEvent.Create(ctx, event); err != nil {
		t.Fatalf("创建活动失败: %v", err)
	}

	if withAnna {
		lines := []model.ActivityEventPartner{{
			ActivityEventID:  event.ActivityEventID,
			MemberID:         fx.anna.MemberID,
			ProductID:        fx.product.ProductID,
			DateStart:        date,
			SchoolCalendarID: &calID,
		}}
		if err := repo.EventPartner.BatchCreate(ctx, lines); err != nil {
			t.Fatalf("创建活动明细失败: %v", err)
		}
		if _, err := repo.ActivityEvent.RecountPartners(ctx, event.ActivityEventID); err != nil {
			t.Fatalf("重算人数失败: %v", err)
		}
	}
	return event
}

// ═══════════════════════════════════════════════════════════
// SchoolCalendar Repository Tests
// ═══════════════════════════════════════════════════════════

func TestSchoolCalendarRepo_FindContaining(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	found, err := repo.SchoolCalendar.FindContaining(ctx, day(2031, 10, 15))
	if err != nil {
		t.Fatalf("FindContaining 失败: %v", err)
	}
	if found.SchoolCalendarID != fx.cal.SchoolCalendarID {
		t.Errorf("期望校历 %s，实际 %s", fx.cal.SchoolCalendarID, found.SchoolCalendarID)
	}

	// 区间两端为闭区间
	if _, err := repo.SchoolCalendar.FindContaining(ctx, day(2032, 6, 30)); err != nil {
		t.Errorf("期望包含结束日期，实际错误: %v", err)
	}

	if _, err := repo.SchoolCalendar.FindContaining(ctx, day(2032, 7, 1)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际 %v", err)
	}
}

func TestSchoolCalendarRepo_DeleteCascadesHolidays(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	err := repo.SchoolHoliday.BatchCreate(ctx, []model.SchoolHoliday{
		{SchoolCalendarID: fx.cal.SchoolCalendarID, Name: "Nadal", DateStart: day(2031, 12, 22), DateEnd: day(2032, 1, 7)},
		{SchoolCalendarID: fx.cal.SchoolCalendarID, Name: "Pilar", DateStart: day(2031, 10, 12), DateEnd: day(2031, 10, 12)},
	})
	if err != nil {
		t.Fatalf("创建非教学日失败: %v", err)
	}

	event := createEvent(t, repo, fx, day(2031, 10, 1), false)

	if err := repo.SchoolCalendar.Delete(ctx, fx.cal.SchoolCalendarID); err != nil {
		t.Fatalf("删除校历失败: %v", err)
	}

	holidays, err := repo.SchoolHoliday.ListByCalendar(ctx, fx.cal.SchoolCalendarID)
	if err != nil {
		t.Fatalf("查询非教学日失败: %v", err)
	}
	if len(holidays) != 0 {
		t.Errorf("期望非教学日被级联删除，实际剩余 %d", len(holidays))
	}

	// 活动保留，校历置空
	got, err := repo.ActivityEvent.GetByID(ctx, event.ActivityEventID)
	if err != nil {
		t.Fatalf("查询活动失败: %v", err)
	}
	if got.SchoolCalendarID != nil {
		t.Errorf("期望 school_calendar_id 置空，实际 %v", *got.SchoolCalendarID)
	}
}

// ═══════════════════════════════════════════════════════════
// ActivityEvent Repository Tests
// ═══════════════════════════════════════════════════════════

func TestActivityEventRepo_OptimisticLock(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	event := createEvent(t, repo, fx, day(2031, 9, 5), false)
	if event.Version != 1 {
		t.Fatalf("期望初始 version=1，实际 %d", event.Version)
	}

	stale := *event

	event.State = model.EventStateClosed
	if err := repo.ActivityEvent.Update(ctx, event); err != nil {
		t.Fatalf("首次更新失败: %v", err)
	}
	if event.Version != 2 {
		t.Errorf("期望 version=2，实际 %d", event.Version)
	}

	stale.AllDay = false
	if err := repo.ActivityEvent.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际 %v", err)
	}

	got, _ := repo.ActivityEvent.GetByID(ctx, event.ActivityEventID)
	if got.State != model.EventStateClosed || !got.AllDay {
		t.Errorf("过期更新不应生效: state=%s all_day=%v", got.State, got.AllDay)
	}
}

func TestActivityEventRepo_DeleteCascadesPartners(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	event := createEvent(t, repo, fx, day(2031, 9, 5), true)

	got, err := repo.ActivityEvent.GetByID(ctx, event.ActivityEventID)
	if err != nil {
		t.Fatalf("查询活动失败: %v", err)
	}
	if got.TotalPartners != 1 || len(got.Partners) != 1 {
		t.Fatalf("期望 1 条明细，实际 total=%d lines=%d", got.TotalPartners, len(got.Partners))
	}
	if got.Partners[0].Member == nil || got.Partners[0].Member.Name != fx.anna.Name {
		t.Error("期望预加载明细会员")
	}

	if err := repo.ActivityEvent.Delete(ctx, event.ActivityEventID); err != nil {
		t.Fatalf("删除活动失败: %v", err)
	}

	lines, err := repo.EventPartner.ListByEvent(ctx, event.ActivityEventID)
	if err != nil {
		t.Fatalf("查询明细失败: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("期望明细被级联删除，实际剩余 %d", len(lines))
	}
}

func TestActivityEventRepo_ListMonthsAndAggregate(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	createEvent(t, repo, fx, day(2031, 9, 5), true)
	createEvent(t, repo, fx, day(2031, 9, 20), true)
	createEvent(t, repo, fx, day(2031, 11, 3), true)

	months, err := repo.ActivityEvent.ListMonths(ctx, fx.cal.DateStart, fx.cal.DateEnd)
	if err != nil {
		t.Fatalf("ListMonths 失败: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("期望 2 个月份，实际 %d: %+v", len(months), months)
	}
	if months[0].Year != 2031 || months[0].Month != 9 || months[1].Month != 11 {
		t.Errorf("月份顺序错误: %+v", months)
	}

	rows, err := repo.EventPartner.AggregateAttendance(ctx, day(2031, 9, 1), day(2031, 9, 30))
	if err != nil {
		t.Fatalf("AggregateAttendance 失败: %v", err)
	}

	var total int
	for _, r := range rows {
		if r.Partner == fx.anna.Name && r.Product == fx.product.Name {
			total = r.Total
		}
	}
	if total != 2 {
		t.Errorf("期望 9 月出勤 2 次，实际 %d", total)
	}
}

func TestEventPartnerRepo_SyncEventSnapshot(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	event := createEvent(t, repo, fx, day(2031, 9, 5), true)

	if err := repo.EventPartner.SyncEventSnapshot(ctx, event.ActivityEventID, day(2032, 8, 1), nil); err != nil {
		t.Fatalf("同步快照失败: %v", err)
	}

	lines, err := repo.EventPartner.ListByEvent(ctx, event.ActivityEventID)
	if err != nil || len(lines) != 1 {
		t.Fatalf("查询明细失败: %v (len=%d)", err, len(lines))
	}
	if !lines[0].DateStart.Equal(day(2032, 8, 1)) {
		t.Errorf("期望快照日期 2032-08-01，实际 %s", lines[0].DateStart.Format(time.DateOnly))
	}
	if lines[0].SchoolCalendarID != nil {
		t.Error("期望快照校历置空")
	}
}

func TestRosterRepo_DuplicateMember(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	line := &model.RosterLine{ActivityTypeID: fx.typ.ActivityTypeID, MemberID: fx.anna.MemberID, ProductID: fx.product.ProductID}
	if err := repo.Roster.Create(ctx, line); err != nil {
		t.Fatalf("创建预登记失败: %v", err)
	}

	dup := &model.RosterLine{ActivityTypeID: fx.typ.ActivityTypeID, MemberID: fx.anna.MemberID, ProductID: fx.product.ProductID}
	if err := repo.Roster.Create(ctx, dup); !pkgerrors.IsDuplicateKey(err) {
		t.Errorf("期望唯一约束冲突，实际 %v", err)
	}

	lines, err := repo.Roster.ListByType(ctx, fx.typ.ActivityTypeID)
	if err != nil || len(lines) != 1 {
		t.Fatalf("期望 1 条预登记，实际 %d (%v)", len(lines), err)
	}
	if lines[0].Member == nil || lines[0].Product == nil {
		t.Error("期望预加载会员与产品")
	}
}

func TestRepository_TransactionRollback(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	sentinel := errors.New("rollback")
	var createdID string
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		event := createEvent(t, txRepo, fx, day(2031, 9, 5), false)
		createdID = event.ActivityEventID
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望返回回滚错误，实际 %v", err)
	}

	if _, err := repo.ActivityEvent.GetByID(ctx, createdID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望事务回滚后活动不存在，实际 %v", err)
	}
}

// 会员、产品删除时明细行由外键级联删除，活动人数须同步更新
func TestMemberAndProductDelete_RecountEventTotals(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	biel := &model.Member{Name: fmt.Sprintf("Biel-%d", time.Now().UnixNano()), PartnerType: model.PartnerTypeStudent}
	if err := testDB.Create(biel).Error; err != nil {
		t.Fatalf("创建会员失败: %v", err)
	}
	defer testDB.Where("member_id = ?", biel.MemberID).Delete(&model.Member{})

	event := createEvent(t, repo, fx, day(2031, 9, 5), true)
	calID := fx.cal.SchoolCalendarID
	if err := repo.EventPartner.BatchCreate(ctx, []model.ActivityEventPartner{{
		ActivityEventID:  event.ActivityEventID,
		MemberID:         biel.MemberID,
		ProductID:        fx.product.ProductID,
		DateStart:        event.DateStart,
		SchoolCalendarID: &calID,
	}}); err != nil {
		t.Fatalf("创建活动明细失败: %v", err)
	}
	if n, _ := repo.ActivityEvent.RecountPartners(ctx, event.ActivityEventID); n != 2 {
		t.Fatalf("期望 2 条明细，实际 %d", n)
	}

	assertTotal := func(want int) {
		t.Helper()
		got, err := repo.ActivityEvent.GetByID(ctx, event.ActivityEventID)
		if err != nil {
			t.Fatalf("查询活动失败: %v", err)
		}
		if got.TotalPartners != want || len(got.Partners) != want {
			t.Errorf("期望 total_partners=%d，实际 total=%d lines=%d", want, got.TotalPartners, len(got.Partners))
		}
	}

	if err := service.NewMemberService(repo, zap.NewNop()).Delete(ctx, fx.anna.MemberID); err != nil {
		t.Fatalf("删除会员失败: %v", err)
	}
	assertTotal(1)

	if err := service.NewProductService(repo, zap.NewNop()).Delete(ctx, fx.product.ProductID); err != nil {
		t.Fatalf("删除产品失败: %v", err)
	}
	assertTotal(0)
}

func TestActivityTypeDelete_InUse(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	createEvent(t, repo, fx, day(2031, 9, 5), false)

	err := service.NewActivityTypeService(repo, zap.NewNop()).Delete(ctx, fx.typ.ActivityTypeID)
	if !errors.Is(err, service.ErrActivityTypeInUse) {
		t.Errorf("期望 ErrActivityTypeInUse，实际 %v", err)
	}
}
