package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// ZoneRepository 区域数据访问接口
type ZoneRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Zone, error)
	ListAll(ctx context.Context) ([]model.Zone, error)
	ListByRegion(ctx context.Context, regionID uint) ([]model.Zone, error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.Zone, error)
}

type zoneRepo struct {
	db *gorm.DB
}

// NewZoneRepo 创建 ZoneRepository 实例
func NewZoneRepo(db *gorm.DB) ZoneRepository {
	return &zoneRepo{db: db}
}

func (r *zoneRepo) GetByID(ctx context.Context, id uint) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).First(&zone, id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) ListAll(ctx context.Context) ([]model.Zone, error) {
	var zones []model.Zone
	err := r.db.WithContext(ctx).
		Order("title_en ASC").
		Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) ListByRegion(ctx context.Context, regionID uint) ([]model.Zone, error) {
	var zones []model.Zone
	err := r.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("title_en ASC").
		Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Zone, error) {
	var zones []model.Zone
	if len(ids) == 0 {
		return zones, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("title_en ASC").
		Find(&zones).Error
	return zones, err
}
