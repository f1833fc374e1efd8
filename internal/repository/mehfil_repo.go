package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// MehfilRepository mehfil 目录数据访问接口
type MehfilRepository interface {
	GetByID(ctx context.Context, id uint) (*model.MehfilDirectory, error)
	ListPublishedByZone(ctx context.Context, zoneID uint) ([]model.MehfilDirectory, error)
	CountPublished(ctx context.Context, scope StatsScope) (int64, error)
}

type mehfilRepo struct {
	db *gorm.DB
}

// NewMehfilRepo 创建 MehfilRepository 实例
func NewMehfilRepo(db *gorm.DB) MehfilRepository {
	return &mehfilRepo{db: db}
}

func (r *mehfilRepo) GetByID(ctx context.Context, id uint) (*model.MehfilDirectory, error) {
	var mehfil model.MehfilDirectory
	if err := r.db.WithContext(ctx).First(&mehfil, id).Error; err != nil {
		return nil, err
	}
	return &mehfil, nil
}

// ListPublishedByZone 按 mehfil_number 排序
func (r *mehfilRepo) ListPublishedByZone(ctx context.Context, zoneID uint) ([]model.MehfilDirectory, error) {
	var mehfils []model.MehfilDirectory
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND is_published = ?", zoneID, true).
		Order("mehfil_number ASC").
		Find(&mehfils).Error
	return mehfils, err
}

func (r *mehfilRepo) CountPublished(ctx context.Context, scope StatsScope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.MehfilDirectory{}).
		Where("is_published = ?", true)
	err := applyScope(db, "zone_id", "id", scope).Count(&count).Error
	return count, err
}
