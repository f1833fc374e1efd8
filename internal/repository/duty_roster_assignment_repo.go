package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// DayCount 按星期分组的计数
type DayCount struct {
	Day   string
	Count int64
}

// DutyRosterAssignmentRepository 值班安排数据访问接口
type DutyRosterAssignmentRepository interface {
	Create(ctx context.Context, a *model.DutyRosterAssignment) error
	GetByID(ctx context.Context, id uint) (*model.DutyRosterAssignment, error)
	Exists(ctx context.Context, rosterID, dutyTypeID uint, day string) (bool, error)
	ExistsForRosters(ctx context.Context, rosterIDs []uint, dutyTypeID uint, day string) (bool, error)
	ListByRoster(ctx context.Context, rosterID uint) ([]model.DutyRosterAssignment, error)
	Delete(ctx context.Context, id uint) error
	DeleteByRoster(ctx context.Context, rosterID uint) error
	UpdateMehfilByRoster(ctx context.Context, rosterID, mehfilID uint) error
	UpdateCoordinatorByDutyType(ctx context.Context, dutyTypeID uint, isCoordinator bool) error
	Count(ctx context.Context, scope StatsScope) (int64, error)
	CountByDay(ctx context.Context, scope StatsScope) ([]DayCount, error)
	CoordinatorCoverage(ctx context.Context, scope StatsScope) ([]DayCount, error)
}

type dutyRosterAssignmentRepo struct {
	db *gorm.DB
}

// NewDutyRosterAssignmentRepo 创建 DutyRosterAssignmentRepository 实例
func NewDutyRosterAssignmentRepo(db *gorm.DB) DutyRosterAssignmentRepository {
	return &dutyRosterAssignmentRepo{db: db}
}

func (r *dutyRosterAssignmentRepo) Create(ctx context.Context, a *model.DutyRosterAssignment) error {
	return r.db.WithContext(ctx).Omit("DutyType").Create(a).Error
}

func (r *dutyRosterAssignmentRepo) GetByID(ctx context.Context, id uint) (*model.DutyRosterAssignment, error) {
	var a model.DutyRosterAssignment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *dutyRosterAssignmentRepo) Exists(ctx context.Context, rosterID, dutyTypeID uint, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DutyRosterAssignment{}).
		Where("duty_roster_id = ? AND duty_type_id = ? AND day = ?", rosterID, dutyTypeID, day).
		Count(&count).Error
	return count > 0, err
}

func (r *dutyRosterAssignmentRepo) ExistsForRosters(ctx context.Context, rosterIDs []uint, dutyTypeID uint, day string) (bool, error) {
	if len(rosterIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DutyRosterAssignment{}).
		Where("duty_roster_id IN ? AND duty_type_id = ? AND day = ?", rosterIDs, dutyTypeID, day).
		Count(&count).Error
	return count > 0, err
}

// ListByRoster 关联 DutyType，按周一 → 周日排序
func (r *dutyRosterAssignmentRepo) ListByRoster(ctx context.Context, rosterID uint) ([]model.DutyRosterAssignment, error) {
	var items []model.DutyRosterAssignment
	err := r.db.WithContext(ctx).
		Preload("DutyType").
		Where("duty_roster_id = ?", rosterID).
		Order(model.DayOrderSQL).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *dutyRosterAssignmentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.DutyRosterAssignment{}, id).Error
}

func (r *dutyRosterAssignmentRepo) DeleteByRoster(ctx context.Context, rosterID uint) error {
	return r.db.WithContext(ctx).
		Where("duty_roster_id = ?", rosterID).
		Delete(&model.DutyRosterAssignment{}).Error
}

// UpdateMehfilByRoster 名册换 mehfil 后同步冗余列
func (r *dutyRosterAssignmentRepo) UpdateMehfilByRoster(ctx context.Context, rosterID, mehfilID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.DutyRosterAssignment{}).
		Where("duty_roster_id = ?", rosterID).
		Update("mehfil_directory_id", mehfilID).Error
}

// UpdateCoordinatorByDutyType 值班类型改名后同步冗余的 is_coordinator
func (r *dutyRosterAssignmentRepo) UpdateCoordinatorByDutyType(ctx context.Context, dutyTypeID uint, isCoordinator bool) error {
	return r.db.WithContext(ctx).
		Model(&model.DutyRosterAssignment{}).
		Where("duty_type_id = ?", dutyTypeID).
		Update("is_coordinator", isCoordinator).Error
}

// scoped assignment 行通过 duty_rosters 取 zone
func (r *dutyRosterAssignmentRepo) scoped(ctx context.Context, scope StatsScope) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&model.DutyRosterAssignment{}).
		Joins("JOIN duty_rosters ON duty_rosters.id = duty_roster_assignments.duty_roster_id")
	return applyScope(db, "duty_rosters.zone_id", "duty_rosters.mehfil_directory_id", scope)
}

func (r *dutyRosterAssignmentRepo) Count(ctx context.Context, scope StatsScope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}
	var count int64
	err := r.scoped(ctx, scope).Count(&count).Error
	return count, err
}

func (r *dutyRosterAssignmentRepo) CountByDay(ctx context.Context, scope StatsScope) ([]DayCount, error) {
	var rows []DayCount
	if scope.Empty() {
		return rows, nil
	}
	err := r.scoped(ctx, scope).
		Select("duty_roster_assignments.day AS day, COUNT(*) AS count").
		Group("duty_roster_assignments.day").
		Scan(&rows).Error
	return rows, err
}

// CoordinatorCoverage 每个星期有 coordinator 的 mehfil 数
func (r *dutyRosterAssignmentRepo) CoordinatorCoverage(ctx context.Context, scope StatsScope) ([]DayCount, error) {
	var rows []DayCount
	if scope.Empty() {
		return rows, nil
	}
	err := r.scoped(ctx, scope).
		Where("duty_roster_assignments.is_coordinator = ?", true).
		Select("duty_roster_assignments.day AS day, COUNT(DISTINCT duty_roster_assignments.mehfil_directory_id) AS count").
		Group("duty_roster_assignments.day").
		Scan(&rows).Error
	return rows, err
}
