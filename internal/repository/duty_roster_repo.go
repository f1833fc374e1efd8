package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// RosterFilter 名册列表查询条件
type RosterFilter struct {
	ZoneID   uint
	MehfilID *uint
	UserType string
	Search   string
	// RequireAssignments 仅返回至少有一条 assignment 的名册
	RequireAssignments bool
}

// DutyRosterRepository 值班名册数据访问接口
type DutyRosterRepository interface {
	Create(ctx context.Context, roster *model.DutyRoster) error
	GetByID(ctx context.Context, id uint) (*model.DutyRoster, error)
	GetByUserAndMehfil(ctx context.Context, userID, mehfilID uint) (*model.DutyRoster, error)
	ListByUser(ctx context.Context, userID uint) ([]model.DutyRoster, error)
	List(ctx context.Context, filter RosterFilter) ([]model.DutyRoster, error)
	ListIDsByMehfil(ctx context.Context, mehfilID uint) ([]uint, error)
	LockByMehfil(ctx context.Context, mehfilID uint) error
	Update(ctx context.Context, roster *model.DutyRoster) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, scope StatsScope) (int64, error)
}

type dutyRosterRepo struct {
	db *gorm.DB
}

// NewDutyRosterRepo 创建 DutyRosterRepository 实例
func NewDutyRosterRepo(db *gorm.DB) DutyRosterRepository {
	return &dutyRosterRepo{db: db}
}

// withDetails 预加载用户、mehfil 与按周一 → 周日排序的 assignments
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Mehfil").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order(model.DayOrderSQL).Order("id ASC")
		}).
		Preload("Assignments.DutyType")
}

func (r *dutyRosterRepo) Create(ctx context.Context, roster *model.DutyRoster) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(roster).Error
}

func (r *dutyRosterRepo) GetByID(ctx context.Context, id uint) (*model.DutyRoster, error) {
	var roster model.DutyRoster
	err := withDetails(r.db.WithContext(ctx)).
		First(&roster, id).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *dutyRosterRepo) GetByUserAndMehfil(ctx context.Context, userID, mehfilID uint) (*model.DutyRoster, error) {
	var roster model.DutyRoster
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mehfil_directory_id = ?", userID, mehfilID).
		First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *dutyRosterRepo) ListByUser(ctx context.Context, userID uint) ([]model.DutyRoster, error) {
	var rosters []model.DutyRoster
	err := withDetails(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("mehfil_directory_id ASC").
		Find(&rosters).Error
	return rosters, err
}

func (r *dutyRosterRepo) List(ctx context.Context, filter RosterFilter) ([]model.DutyRoster, error) {
	var rosters []model.DutyRoster

	db := r.db.WithContext(ctx).
		Model(&model.DutyRoster{}).
		Joins("JOIN users ON users.id = duty_rosters.user_id").
		Where("duty_rosters.zone_id = ?", filter.ZoneID)

	if filter.MehfilID != nil {
		db = db.Where("duty_rosters.mehfil_directory_id = ?", *filter.MehfilID)
	}
	if filter.UserType != "" {
		db = db.Where("users.user_type = ?", filter.UserType)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		db = db.Where("users.name"+ilike+" OR users.email"+ilike+" OR users.phone_number"+ilike, p, p, p)
	}
	if filter.RequireAssignments {
		db = db.Where("EXISTS (SELECT 1 FROM duty_roster_assignments a WHERE a.duty_roster_id = duty_rosters.id)")
	}

	err := withDetails(db).
		Order("users.name ASC").
		Order("duty_rosters.id ASC").
		Find(&rosters).Error
	return rosters, err
}

func (r *dutyRosterRepo) ListIDsByMehfil(ctx context.Context, mehfilID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.DutyRoster{}).
		Where("mehfil_directory_id = ?", mehfilID).
		Pluck("id", &ids).Error
	return ids, err
}

// LockByMehfil 对该 mehfil 的全部名册行加 FOR UPDATE 锁，须在事务内调用
func (r *dutyRosterRepo) LockByMehfil(ctx context.Context, mehfilID uint) error {
	var ids []uint
	return r.db.WithContext(ctx).
		Model(&model.DutyRoster{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("mehfil_directory_id = ?", mehfilID).
		Pluck("id", &ids).Error
}

func (r *dutyRosterRepo) Update(ctx context.Context, roster *model.DutyRoster) error {
	return r.db.WithContext(ctx).
		Model(roster).
		Updates(map[string]interface{}{
			"user_id":             roster.UserID,
			"zone_id":             roster.ZoneID,
			"mehfil_directory_id": roster.MehfilDirectoryID,
			"updated_by":          roster.UpdatedBy,
			"updated_at":          gorm.Expr("NOW()"),
		}).Error
}

// Delete 物理删除；assignments 由外键 ON DELETE CASCADE 级联删除
func (r *dutyRosterRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.DutyRoster{}, id).Error
}

func (r *dutyRosterRepo) Count(ctx context.Context, scope StatsScope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}
	var count int64
	db := r.db.WithContext(ctx).Model(&model.DutyRoster{})
	err := applyScope(db, "zone_id", "mehfil_directory_id", scope).Count(&count).Error
	return count, err
}
