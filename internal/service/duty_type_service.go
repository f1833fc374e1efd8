package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/pagination"
)

// DutyTypeService 值班类型业务接口
type DutyTypeService interface {
	Create(ctx context.Context, req *dto.CreateDutyTypeRequest) (*dto.DutyTypeResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateDutyTypeRequest) (*dto.DutyTypeResponse, error)
	Delete(ctx context.Context, id uint) error
	// ListActive 返回全部值班类型（名为 active，但不按 is_hidden 过滤）
	ListActive(ctx context.Context) ([]dto.ActiveDutyTypeResponse, error)
	List(ctx context.Context, page pagination.Params, search string) ([]dto.DutyTypeResponse, int64, error)
}

type dutyTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDutyTypeService 创建 DutyTypeService 实例
func NewDutyTypeService(repo *repository.Repository, logger *zap.Logger) DutyTypeService {
	return &dutyTypeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *dutyTypeService) Create(ctx context.Context, req *dto.CreateDutyTypeRequest) (*dto.DutyTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if req.ZoneID == nil || *req.ZoneID == 0 || name == "" {
		return nil, ErrDutyTypeFieldsRequired
	}

	dutyType := &model.DutyType{
		ZoneID:     *req.ZoneID,
		Name:       name,
		IsEditable: true,
	}
	if req.Description != nil {
		dutyType.Description = *req.Description
	}
	if req.IsEditable != nil {
		dutyType.IsEditable = *req.IsEditable
	}
	if req.IsHidden != nil {
		dutyType.IsHidden = *req.IsHidden
	}
	dutyType.CreatedBy = req.CreatedBy
	dutyType.UpdatedBy = req.CreatedBy

	if err := s.repo.DutyType.Create(ctx, dutyType); err != nil {
		s.logger.Error("创建值班类型失败", zap.Error(err))
		return nil, err
	}

	resp := dto.ToDutyTypeResponse(dutyType)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *dutyTypeService) Update(ctx context.Context, id uint, req *dto.UpdateDutyTypeRequest) (*dto.DutyTypeResponse, error) {
	var updated *model.DutyType
	err := s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		dutyType, err := lockDutyType(ctx, txRepo, s.logger, id, lockUpdate)
		if err != nil {
			return err
		}
		wasCoordinator := dutyType.IsCoordinator()

		if err := applyDutyTypeUpdate(dutyType, req); err != nil {
			return err
		}
		// 改名进出 coordinator 时同步 assignment 冗余列
		if isCoordinator := dutyType.IsCoordinator(); isCoordinator != wasCoordinator {
			if err := txRepo.DutyRosterAssignment.UpdateCoordinatorByDutyType(ctx, id, isCoordinator); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrCoordinatorAlreadyAssigned
				}
				s.logger.Error("同步 coordinator 标记失败", zap.Uint("duty_type_id", id), zap.Error(err))
				return err
			}
		}
		if err := txRepo.DutyType.Update(ctx, dutyType); err != nil {
			s.logger.Error("更新值班类型失败", zap.Uint("id", id), zap.Error(err))
			return err
		}
		updated = dutyType
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToDutyTypeResponse(updated)
	return &resp, nil
}

func applyDutyTypeUpdate(dutyType *model.DutyType, req *dto.UpdateDutyTypeRequest) error {
	if req.ZoneID != nil && *req.ZoneID != 0 {
		dutyType.ZoneID = *req.ZoneID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return ErrDutyTypeFieldsRequired
		}
		dutyType.Name = name
	}
	if req.Description != nil {
		dutyType.Description = *req.Description
	}
	if req.IsEditable != nil {
		dutyType.IsEditable = *req.IsEditable
	}
	if req.IsHidden != nil {
		dutyType.IsHidden = *req.IsHidden
	}
	if req.UpdatedBy != nil {
		dutyType.UpdatedBy = req.UpdatedBy
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

// Delete 不检查引用，已有 assignment 的 duty_type_id 将悬空
func (s *dutyTypeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getDutyType(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DutyType.Delete(ctx, id); err != nil {
		s.logger.Error("删除值班类型失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *dutyTypeService) ListActive(ctx context.Context) ([]dto.ActiveDutyTypeResponse, error) {
	types, err := s.repo.DutyType.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出值班类型失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ActiveDutyTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, dto.ToActiveDutyTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *dutyTypeService) List(ctx context.Context, page pagination.Params, search string) ([]dto.DutyTypeResponse, int64, error) {
	types, total, err := s.repo.DutyType.List(ctx, strings.TrimSpace(search), page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("分页查询值班类型失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DutyTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, dto.ToDutyTypeResponse(&types[i]))
	}
	return result, total, nil
}

// ── 内部方法 ──

func (s *dutyTypeService) getDutyType(ctx context.Context, id uint) (*model.DutyType, error) {
	return findDutyType(ctx, s.repo, s.logger, id)
}
