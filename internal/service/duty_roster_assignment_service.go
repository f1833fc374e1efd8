package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
)

// DutyRosterAssignmentService 值班安排业务接口
type DutyRosterAssignmentService interface {
	Create(ctx context.Context, req *dto.AddDutyRequest, callerID *uint) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
	ListByRoster(ctx context.Context, rosterID uint) ([]dto.AssignmentResponse, error)
}

type dutyRosterAssignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDutyRosterAssignmentService 创建 DutyRosterAssignmentService 实例
func NewDutyRosterAssignmentService(repo *repository.Repository, logger *zap.Logger) DutyRosterAssignmentService {
	return &dutyRosterAssignmentService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// bookAssignment：写入 assignment 的唯一入口
// ═══════════════════════════════════════════════════════════
//
// 须在事务内调用（txRepo 来自 Repository.RunInTx）：
//  1. 校验并规整 day
//  2. 锁定该 mehfil 的全部名册行，串行化同一 mehfil 的并发写入
//  3. 同一 (roster, duty type, day) 不可重复
//  4. coordinator 类型：同一 mehfil 同一天同一类型只允许一条
//     dutyType 须经 lockDutyType 以 SHARE 锁读取，与改名同步互斥
//  5. 插入；唯一索引冲突翻译为对应的业务错误

func bookAssignment(ctx context.Context, txRepo *repository.Repository, logger *zap.Logger,
	roster *model.DutyRoster, dutyType *model.DutyType, day string, createdBy *uint,
) (*model.DutyRosterAssignment, error) {
	day, ok := model.NormalizeDay(day)
	if !ok {
		return nil, ErrInvalidDay
	}

	if err := txRepo.DutyRoster.LockByMehfil(ctx, roster.MehfilDirectoryID); err != nil {
		logger.Error("锁定 mehfil 名册失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
		return nil, err
	}

	exists, err := txRepo.DutyRosterAssignment.Exists(ctx, roster.ID, dutyType.ID, day)
	if err != nil {
		logger.Error("查询值班安排失败", zap.Uint("roster_id", roster.ID), zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDutyAlreadyAssigned
	}

	isCoordinator := dutyType.IsCoordinator()
	if isCoordinator {
		rosterIDs, err := txRepo.DutyRoster.ListIDsByMehfil(ctx, roster.MehfilDirectoryID)
		if err != nil {
			logger.Error("查询 mehfil 名册失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
			return nil, err
		}
		taken, err := txRepo.DutyRosterAssignment.ExistsForRosters(ctx, rosterIDs, dutyType.ID, day)
		if err != nil {
			logger.Error("查询 coordinator 安排失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrCoordinatorAlreadyAssigned
		}
	}

	assignment := &model.DutyRosterAssignment{
		DutyRosterID:      roster.ID,
		DutyTypeID:        dutyType.ID,
		Day:               day,
		MehfilDirectoryID: roster.MehfilDirectoryID,
		IsCoordinator:     isCoordinator,
		CreatedBy:         createdBy,
	}
	if err := txRepo.DutyRosterAssignment.Create(ctx, assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if isCoordinator {
				return nil, ErrCoordinatorAlreadyAssigned
			}
			return nil, ErrDutyAlreadyAssigned
		}
		logger.Error("创建值班安排失败", zap.Uint("roster_id", roster.ID), zap.Error(err))
		return nil, err
	}
	assignment.DutyType = dutyType
	return assignment, nil
}

// ────────────────────── Create ──────────────────────

func (s *dutyRosterAssignmentService) Create(ctx context.Context, req *dto.AddDutyRequest, callerID *uint) (*dto.AssignmentResponse, error) {
	if req.RosterID == nil || req.DutyTypeID == nil || req.Day == "" {
		return nil, ErrAssignmentFieldsRequired
	}
	if _, ok := model.NormalizeDay(req.Day); !ok {
		return nil, ErrInvalidDay
	}

	var created *model.DutyRosterAssignment
	err := s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		roster, err := findRoster(ctx, txRepo, s.logger, *req.RosterID)
		if err != nil {
			return err
		}
		dutyType, err := lockDutyType(ctx, txRepo, s.logger, *req.DutyTypeID, lockShare)
		if err != nil {
			return err
		}
		created, err = bookAssignment(ctx, txRepo, s.logger, roster, dutyType, req.Day, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToAssignmentResponse(created)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *dutyRosterAssignmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.DutyRosterAssignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询值班安排失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.DutyRosterAssignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除值班安排失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ListByRoster ──────────────────────

func (s *dutyRosterAssignmentService) ListByRoster(ctx context.Context, rosterID uint) ([]dto.AssignmentResponse, error) {
	if _, err := findRoster(ctx, s.repo, s.logger, rosterID); err != nil {
		return nil, err
	}
	items, err := s.repo.DutyRosterAssignment.ListByRoster(ctx, rosterID)
	if err != nil {
		s.logger.Error("查询名册值班安排失败", zap.Uint("roster_id", rosterID), zap.Error(err))
		return nil, err
	}
	return dto.ToAssignmentResponses(items), nil
}

// ── 共用查询 ──

func findRoster(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.DutyRoster, error) {
	roster, err := repo.DutyRoster.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterNotFound
		}
		logger.Error("查询名册失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return roster, nil
}

func findDutyType(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.DutyType, error) {
	dutyType, err := repo.DutyType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyTypeNotFound
		}
		logger.Error("查询值班类型失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dutyType, nil
}

const (
	lockShare  = "SHARE"
	lockUpdate = "UPDATE"
)

// lockDutyType 事务内读取并锁定值班类型
func lockDutyType(ctx context.Context, txRepo *repository.Repository, logger *zap.Logger, id uint, strength string) (*model.DutyType, error) {
	dutyType, err := txRepo.DutyType.LockByID(ctx, id, strength)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyTypeNotFound
		}
		logger.Error("锁定值班类型失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dutyType, nil
}

func findMehfil(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.MehfilDirectory, error) {
	mehfil, err := repo.Mehfil.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMehfilNotFound
		}
		logger.Error("查询 mehfil 失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return mehfil, nil
}

func findUser(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("查询用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}
