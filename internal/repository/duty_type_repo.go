package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
)

// DutyTypeRepository 值班类型数据访问接口
type DutyTypeRepository interface {
	Create(ctx context.Context, dutyType *model.DutyType) error
	GetByID(ctx context.Context, id uint) (*model.DutyType, error)
	LockByID(ctx context.Context, id uint, strength string) (*model.DutyType, error)
	ListAll(ctx context.Context) ([]model.DutyType, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.DutyType, int64, error)
	Update(ctx context.Context, dutyType *model.DutyType) error
	Delete(ctx context.Context, id uint) error
}

type dutyTypeRepo struct {
	db *gorm.DB
}

// NewDutyTypeRepo 创建 DutyTypeRepository 实例
func NewDutyTypeRepo(db *gorm.DB) DutyTypeRepository {
	return &dutyTypeRepo{db: db}
}

func (r *dutyTypeRepo) Create(ctx context.Context, dutyType *model.DutyType) error {
	return r.db.WithContext(ctx).Create(dutyType).Error
}

func (r *dutyTypeRepo) GetByID(ctx context.Context, id uint) (*model.DutyType, error) {
	var dutyType model.DutyType
	if err := r.db.WithContext(ctx).First(&dutyType, id).Error; err != nil {
		return nil, err
	}
	return &dutyType, nil
}

// LockByID 读取并锁定值班类型行，strength 为 "UPDATE" 或 "SHARE"，须在事务内调用
func (r *dutyTypeRepo) LockByID(ctx context.Context, id uint, strength string) (*model.DutyType, error) {
	var dutyType model.DutyType
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		First(&dutyType, id).Error
	if err != nil {
		return nil, err
	}
	return &dutyType, nil
}

// ListAll 不过滤 is_hidden
func (r *dutyTypeRepo) ListAll(ctx context.Context) ([]model.DutyType, error) {
	var types []model.DutyType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *dutyTypeRepo) List(ctx context.Context, search string, offset, limit int) ([]model.DutyType, int64, error) {
	var types []model.DutyType
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DutyType{})
	if search != "" {
		p := likePattern(search)
		db = db.Where("name"+ilike+" OR description"+ilike, p, p)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&types).Error
	return types, total, err
}

func (r *dutyTypeRepo) Update(ctx context.Context, dutyType *model.DutyType) error {
	return r.db.WithContext(ctx).Save(dutyType).Error
}

// Delete 硬删除，不检查是否仍被 assignment 引用
func (r *dutyTypeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.DutyType{}, id).Error
}
