package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// MehfilReportRepository mehfil 月报数据访问接口（只读）
type MehfilReportRepository interface {
	CountSubmitted(ctx context.Context, scope StatsScope, month, year int) (int64, error)
}

type mehfilReportRepo struct {
	db *gorm.DB
}

// NewMehfilReportRepo 创建 MehfilReportRepository 实例
func NewMehfilReportRepo(db *gorm.DB) MehfilReportRepository {
	return &mehfilReportRepo{db: db}
}

func (r *mehfilReportRepo) CountSubmitted(ctx context.Context, scope StatsScope, month, year int) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.MehfilReport{}).
		Where("report_month = ? AND report_year = ?", month, year)
	err := applyScope(db, "zone_id", "mehfil_directory_id", scope).Count(&count).Error
	return count, err
}
