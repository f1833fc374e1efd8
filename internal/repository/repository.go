package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Zone                 ZoneRepository
	Mehfil               MehfilRepository
	User                 UserRepository
	DutyType             DutyTypeRepository
	DutyRoster           DutyRosterRepository
	DutyRosterAssignment DutyRosterAssignmentRepository
	MehfilReport         MehfilReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                   db,
		Zone:                 NewZoneRepo(db),
		Mehfil:               NewMehfilRepo(db),
		User:                 NewUserRepo(db),
		DutyType:             NewDutyTypeRepo(db),
		DutyRoster:           NewDutyRosterRepo(db),
		DutyRosterAssignment: NewDutyRosterAssignmentRepo(db),
		MehfilReport:         NewMehfilReportRepo(db),
	}
}

// RunInTx 在事务中执行 fn，fn 返回错误或 panic 时回滚
func (r *Repository) RunInTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
