//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=idreesia password=idreesia dbname=idreesia_test sslmode=disable TimeZone=Asia/Karachi"
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

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type fixture struct {
	zone        *model.Zone
	mehfil      *model.MehfilDirectory
	users       []*model.User
	coordinator *model.DutyType
	gate        *model.DutyType
	rosters     []*model.DutyRoster
}

// setupFixture 一个 zone、一个 mehfil、两个 karkun 及其名册
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()
	f := &fixture{}

	f.zone = &model.Zone{TitleEn: fmt.Sprintf("Zone-%d", suffix)}
	mustCreate(t, ctx, f.zone)

	f.mehfil = &model.MehfilDirectory{ZoneID: f.zone.ID, MehfilNumber: "12", NameEn: "Gulshan", IsPublished: true}
	mustCreate(t, ctx, f.mehfil)

	for i := 0; i < 2; i++ {
		u := &model.User{
			Name:              fmt.Sprintf("Karkun-%d-%d", i, suffix),
			UserType:          model.UserTypeKarkun,
			ZoneID:            &f.zone.ID,
			MehfilDirectoryID: &f.mehfil.ID,
		}
		mustCreate(t, ctx, u)
		f.users = append(f.users, u)

		r := &model.DutyRoster{UserID: u.ID, ZoneID: f.zone.ID, MehfilDirectoryID: f.mehfil.ID}
		mustCreate(t, ctx, r)
		f.rosters = append(f.rosters, r)
	}

	f.coordinator = &model.DutyType{ZoneID: f.zone.ID, Name: "Coordinator", IsEditable: true}
	mustCreate(t, ctx, f.coordinator)
	f.gate = &model.DutyType{ZoneID: f.zone.ID, Name: "Gate", IsEditable: true}
	mustCreate(t, ctx, f.gate)

	t.Cleanup(func() {
		for _, r := range f.rosters {
			testDB.Where("id = ?", r.ID).Delete(&model.DutyRoster{})
		}
		testDB.Where("zone_id = ?", f.zone.ID).Delete(&model.DutyType{})
		for _, u := range f.users {
			testDB.Where("id = ?", u.ID).Delete(&model.User{})
		}
		testDB.Where("id = ?", f.mehfil.ID).Delete(&model.MehfilDirectory{})
		testDB.Where("id = ?", f.zone.ID).Delete(&model.Zone{})
	})
	return f
}

func mustCreate(t *testing.T, ctx context.Context, v interface{}) {
	t.Helper()
	if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
		t.Fatalf("创建测试数据失败: %v", err)
	}
}

func assignment(r *model.DutyRoster, dt *model.DutyType, day string) *model.DutyRosterAssignment {
	return &model.DutyRosterAssignment{
		DutyRosterID:      r.ID,
		DutyTypeID:        dt.ID,
		Day:               day,
		MehfilDirectoryID: r.MehfilDirectoryID,
		IsCoordinator:     dt.IsCoordinator(),
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 唯一约束
// ═══════════════════════════════════════════════════════════

func TestRoster_UniqueUserMehfil(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)

	dup := &model.DutyRoster{UserID: f.users[0].ID, ZoneID: f.zone.ID, MehfilDirectoryID: f.mehfil.ID}
	err := repo.DutyRoster.Create(context.Background(), dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，实际: %v", err)
	}
}

func TestAssignment_UniqueSlot(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[0], f.gate, "monday")); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[0], f.gate, "monday"))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，实际: %v", err)
	}

	// 另一天不冲突
	if err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[0], f.gate, "tuesday")); err != nil {
		t.Errorf("不同 day 应允许: %v", err)
	}
}

func TestAssignment_CoordinatorPartialIndex(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[0], f.coordinator, "friday")); err != nil {
		t.Fatalf("首个 coordinator 应成功: %v", err)
	}
	// 同一 mehfil 同一天的另一名册
	err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[1], f.coordinator, "friday"))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望部分唯一索引拒绝第二个 coordinator，实际: %v", err)
	}
	// 非 coordinator 不受部分索引约束
	if err := repo.DutyRosterAssignment.Create(ctx, assignment(f.rosters[1], f.gate, "friday")); err != nil {
		t.Errorf("普通值班应允许: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 级联删除
// ═══════════════════════════════════════════════════════════

func TestRoster_DeleteCascadesAssignments(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := assignment(f.rosters[0], f.gate, "sunday")
	if err := repo.DutyRosterAssignment.Create(ctx, a); err != nil {
		t.Fatalf("创建值班失败: %v", err)
	}
	if err := repo.DutyRoster.Delete(ctx, f.rosters[0].ID); err != nil {
		t.Fatalf("删除名册失败: %v", err)
	}

	if _, err := repo.DutyRosterAssignment.GetByID(ctx, a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望值班随名册删除，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestRunInTx_Rollback(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var created *model.DutyRosterAssignment
	sentinel := errors.New("rollback")
	err := repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		created = assignment(f.rosters[0], f.gate, "wednesday")
		if err := txRepo.DutyRosterAssignment.Create(ctx, created); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望返回回调错误，实际: %v", err)
	}

	if _, err := repo.DutyRosterAssignment.GetByID(ctx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望回滚后查不到值班，实际: %v", err)
	}
}

func TestStats_CoordinatorCoverage(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	mustCreate(t, ctx, assignment(f.rosters[0], f.coordinator, "monday"))
	mustCreate(t, ctx, assignment(f.rosters[1], f.gate, "monday"))
	mustCreate(t, ctx, assignment(f.rosters[1], f.coordinator, "tuesday"))

	scope := repository.StatsScope{ZoneIDs: []uint{f.zone.ID}}
	coverage, err := repo.DutyRosterAssignment.CoordinatorCoverage(ctx, scope)
	if err != nil {
		t.Fatalf("CoordinatorCoverage 失败: %v", err)
	}
	byDay := map[string]int64{}
	for _, c := range coverage {
		byDay[c.Day] = c.Count
	}
	if byDay["monday"] != 1 || byDay["tuesday"] != 1 || byDay["friday"] != 0 {
		t.Errorf("coverage 不符: %v", byDay)
	}

	total, err := repo.DutyRosterAssignment.Count(ctx, scope)
	if err != nil || total != 3 {
		t.Errorf("期望 3 条值班，实际=%d err=%v", total, err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 并发下每个 mehfil 每天只有一个 coordinator
// ═══════════════════════════════════════════════════════════

func TestAddDuty_ConcurrentCoordinators(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	svc := service.NewDutyRosterAssignmentService(repo, zap.NewNop())
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, r := range f.rosters {
		wg.Add(1)
		go func(rosterID uint) {
			defer wg.Done()
			coordinatorID := f.coordinator.ID
			_, err := svc.Create(ctx, &dto.AddDutyRequest{RosterID: &rosterID, Day: "thursday", DutyTypeID: &coordinatorID}, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, service.ErrCoordinatorAlreadyAssigned):
				conflicts++
			default:
				t.Errorf("意外错误: %v", err)
			}
		}(r.ID)
	}
	wg.Wait()

	if successes != 1 || conflicts != 1 {
		t.Errorf("期望 1 成功 1 冲突，实际 success=%d conflict=%d", successes, conflicts)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 值班类型改名同步 is_coordinator
// ═══════════════════════════════════════════════════════════

func TestDutyTypeRename_ResyncsCoordinatorFlag(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	typeSvc := service.NewDutyTypeService(repo, zap.NewNop())
	ctx := context.Background()

	booked := assignment(f.rosters[0], f.coordinator, "saturday")
	mustCreate(t, ctx, booked)

	stage, coordinator := "Stage", "Coordinator"
	if _, err := typeSvc.Update(ctx, f.coordinator.ID, &dto.UpdateDutyTypeRequest{Name: &stage}); err != nil {
		t.Fatalf("改名应成功: %v", err)
	}
	if _, err := typeSvc.Update(ctx, f.gate.ID, &dto.UpdateDutyTypeRequest{Name: &coordinator}); err != nil {
		t.Fatalf("改名应成功: %v", err)
	}

	stored, err := repo.DutyRosterAssignment.GetByID(ctx, booked.ID)
	if err != nil || stored.IsCoordinator {
		t.Fatalf("期望冗余标记已清除, 实际=%+v err=%v", stored, err)
	}

	// 索引仅在同一类型内生效
	assignSvc := service.NewDutyRosterAssignmentService(repo, zap.NewNop())
	rosterID, gateID := f.rosters[1].ID, f.gate.ID
	if _, err := assignSvc.Create(ctx, &dto.AddDutyRequest{RosterID: &rosterID, Day: "saturday", DutyTypeID: &gateID}, nil); err != nil {
		t.Errorf("期望允许安排新 coordinator 类型: %v", err)
	}
}

func TestDutyTypeList_SearchLiteralWildcard(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	mustCreate(t, ctx, &model.DutyType{ZoneID: f.zone.ID, Name: "Stage_Left", IsEditable: true})

	types, total, err := repo.DutyType.List(ctx, "_", 0, 100)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	for _, dt := range types {
		if !strings.Contains(dt.Name, "_") && !strings.Contains(dt.Description, "_") {
			t.Errorf("search=_ 不应匹配 %q", dt.Name)
		}
	}
	if total < 1 {
		t.Errorf("期望至少匹配 Stage_Left, 实际 total=%d", total)
	}
}
