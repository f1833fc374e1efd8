package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// AvailableUserFilter 可加入名册的候选人查询条件
type AvailableUserFilter struct {
	ZoneID        uint
	MehfilID      *uint
	UserType      string
	Search        string
	ExcludeAdmins bool
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	ListAvailable(ctx context.Context, filter AvailableUserFilter) ([]model.User, error)
	CountByType(ctx context.Context, scope StatsScope, userType string) (int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAvailable 指定 mehfil 时排除已在该 mehfil 名册上的用户
func (r *userRepo) ListAvailable(ctx context.Context, filter AvailableUserFilter) ([]model.User, error) {
	var users []model.User

	db := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("zone_id = ? AND user_type = ?", filter.ZoneID, filter.UserType)

	if filter.MehfilID != nil {
		db = db.Where("mehfil_directory_id = ?", *filter.MehfilID).
			Where("NOT EXISTS (SELECT 1 FROM duty_rosters dr WHERE dr.user_id = users.id AND dr.mehfil_directory_id = ?)", *filter.MehfilID)
	}
	if filter.ExcludeAdmins {
		db = db.Where("is_super_admin = ? AND is_region_admin = ? AND is_all_region_admin = ? AND is_zone_admin = ? AND is_mehfil_admin = ?",
			false, false, false, false, false)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		db = db.Where("name"+ilike+" OR email"+ilike+" OR phone_number"+ilike, p, p, p)
	}

	err := db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) CountByType(ctx context.Context, scope StatsScope, userType string) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_type = ?", userType)
	err := applyScope(db, "zone_id", "mehfil_directory_id", scope).Count(&count).Error
	return count, err
}
