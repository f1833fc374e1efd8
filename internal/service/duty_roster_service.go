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
)

// DutyRosterService 值班名册业务接口
type DutyRosterService interface {
	Create(ctx context.Context, req *dto.CreateDutyRosterRequest, callerID *uint) (*dto.DutyRosterDetailResponse, error)
	// List 无 zone 时返回 showTable=false；指定 mehfil 为单 mehfil 视图，否则为按 karkun 合并的全区视图
	List(ctx context.Context, q dto.RosterQuery) (*dto.DutyRosterListResponse, error)
	AvailableKarkuns(ctx context.Context, q dto.RosterQuery) ([]dto.UserBrief, error)
	GetByID(ctx context.Context, id uint) (*dto.DutyRosterDetailResponse, error)
	ListByKarkun(ctx context.Context, userID uint) ([]dto.DutyRosterDetailResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateDutyRosterRequest, callerID *uint) (*dto.DutyRosterDetailResponse, error)
	// Delete 级联删除该名册的全部 assignment，不影响用户本身
	Delete(ctx context.Context, id uint) error
}

type dutyRosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDutyRosterService 创建 DutyRosterService 实例
func NewDutyRosterService(repo *repository.Repository, logger *zap.Logger) DutyRosterService {
	return &dutyRosterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *dutyRosterService) Create(ctx context.Context, req *dto.CreateDutyRosterRequest, callerID *uint) (*dto.DutyRosterDetailResponse, error) {
	if req.MehfilDirectoryID == nil || *req.MehfilDirectoryID == 0 {
		return nil, ErrMehfilRequired
	}
	if req.UserID == nil || *req.UserID == 0 {
		return nil, ErrUserRequired
	}

	mehfil, err := s.getMehfil(ctx, *req.MehfilDirectoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getUser(ctx, *req.UserID); err != nil {
		return nil, err
	}

	zoneID := mehfil.ZoneID
	if req.ZoneID != nil && *req.ZoneID != 0 {
		if *req.ZoneID != mehfil.ZoneID {
			return nil, ErrMehfilZoneMismatch
		}
		zoneID = *req.ZoneID
	}
	createdBy := callerID
	if req.CreatedBy != nil {
		createdBy = req.CreatedBy
	}

	roster := &model.DutyRoster{
		UserID:            *req.UserID,
		ZoneID:            zoneID,
		MehfilDirectoryID: mehfil.ID,
	}
	roster.CreatedBy = createdBy
	roster.UpdatedBy = createdBy

	duties := req.Duties()
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		existing, err := txRepo.DutyRoster.GetByUserAndMehfil(ctx, roster.UserID, roster.MehfilDirectoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询名册失败", zap.Uint("user_id", roster.UserID), zap.Error(err))
			return err
		}
		if existing != nil {
			return ErrRosterExists
		}

		if err := txRepo.DutyRoster.Create(ctx, roster); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRosterExists
			}
			s.logger.Error("创建名册失败", zap.Uint("user_id", roster.UserID), zap.Error(err))
			return err
		}

		// 预填的值班与单条添加走同一规则
		for _, day := range model.Weekdays {
			typeID, ok := duties[day]
			if !ok {
				continue
			}
			dutyType, err := lockDutyType(ctx, txRepo, s.logger, typeID, lockShare)
			if err != nil {
				return err
			}
			if _, err := bookAssignment(ctx, txRepo, s.logger, roster, dutyType, day, createdBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, roster.ID)
}

// ────────────────────── List ──────────────────────

func (s *dutyRosterService) List(ctx context.Context, q dto.RosterQuery) (*dto.DutyRosterListResponse, error) {
	if q.ZoneID == nil || *q.ZoneID == 0 {
		return &dto.DutyRosterListResponse{ShowTable: false, Data: []interface{}{}}, nil
	}

	filter := repository.RosterFilter{
		ZoneID:   *q.ZoneID,
		UserType: model.UserTypeForFilter(q.UserTypeFilter),
		Search:   strings.TrimSpace(q.Search),
	}

	// 单 mehfil 视图：包含尚无值班的名册
	if q.MehfilID != nil && *q.MehfilID != 0 {
		filter.MehfilID = q.MehfilID
		rosters, err := s.repo.DutyRoster.List(ctx, filter)
		if err != nil {
			s.logger.Error("查询 mehfil 名册失败", zap.Uint("mehfil_id", *q.MehfilID), zap.Error(err))
			return nil, err
		}
		return &dto.DutyRosterListResponse{ShowTable: true, Data: buildRosterRows(rosters)}, nil
	}

	// 全区视图：仅有值班的名册，按 karkun 合并
	filter.RequireAssignments = true
	rosters, err := s.repo.DutyRoster.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询全区名册失败", zap.Uint("zone_id", *q.ZoneID), zap.Error(err))
		return nil, err
	}
	return &dto.DutyRosterListResponse{ShowTable: true, Data: consolidateByKarkun(rosters)}, nil
}

// buildRosterRows 每个名册一行，assignments 按星期分组
func buildRosterRows(rosters []model.DutyRoster) []dto.RosterRowResponse {
	rows := make([]dto.RosterRowResponse, 0, len(rosters))
	for i := range rosters {
		r := &rosters[i]
		duties := dto.NewDutiesByDay()
		for j := range r.Assignments {
			a := dto.ToAssignmentResponse(&r.Assignments[j])
			duties[a.Day] = append(duties[a.Day], a)
		}
		rows = append(rows, dto.RosterRowResponse{
			ID:                r.ID,
			UserID:            r.UserID,
			ZoneID:            r.ZoneID,
			MehfilDirectoryID: r.MehfilDirectoryID,
			User:              dto.ToUserBrief(r.User),
			Mehfil:            dto.ToMehfilBrief(r.Mehfil),
			Duties:            duties,
		})
	}
	return rows
}

// consolidateByKarkun 将同一 user 在多个 mehfil 的名册合并为一行，
// 每条值班标注所属 mehfil。行顺序沿用输入中 user 首次出现的顺序。
func consolidateByKarkun(rosters []model.DutyRoster) []dto.KarkunRosterRow {
	rows := make([]dto.KarkunRosterRow, 0)
	index := make(map[uint]int)

	for i := range rosters {
		r := &rosters[i]
		pos, ok := index[r.UserID]
		if !ok {
			rows = append(rows, dto.KarkunRosterRow{
				UserID:    r.UserID,
				User:      dto.ToUserBrief(r.User),
				RosterIDs: []uint{},
				Mehfils:   []dto.MehfilBrief{},
				Duties:    dto.NewDutiesByDay(),
			})
			pos = len(rows) - 1
			index[r.UserID] = pos
		}
		row := &rows[pos]
		row.RosterIDs = append(row.RosterIDs, r.ID)

		mehfil := dto.ToMehfilBrief(r.Mehfil)
		if mehfil == nil {
			mehfil = &dto.MehfilBrief{ID: r.MehfilDirectoryID}
		}
		if !containsMehfil(row.Mehfils, mehfil.ID) {
			row.Mehfils = append(row.Mehfils, *mehfil)
		}

		for j := range r.Assignments {
			a := dto.ToAssignmentResponse(&r.Assignments[j])
			a.Mehfil = mehfil
			row.Duties[a.Day] = append(row.Duties[a.Day], a)
		}
	}
	return rows
}

func containsMehfil(list []dto.MehfilBrief, id uint) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ────────────────────── AvailableKarkuns ──────────────────────

func (s *dutyRosterService) AvailableKarkuns(ctx context.Context, q dto.RosterQuery) ([]dto.UserBrief, error) {
	if q.ZoneID == nil || *q.ZoneID == 0 {
		return nil, ErrZoneRequired
	}

	userType := model.UserTypeForFilter(q.UserTypeFilter)
	hasMehfil := q.MehfilID != nil && *q.MehfilID != 0

	// karkun 必须先选定 mehfil
	if userType == model.UserTypeKarkun && !hasMehfil {
		return []dto.UserBrief{}, nil
	}

	filter := repository.AvailableUserFilter{
		ZoneID:        *q.ZoneID,
		UserType:      userType,
		Search:        strings.TrimSpace(q.Search),
		ExcludeAdmins: userType == model.UserTypeKarkun,
	}
	if hasMehfil {
		filter.MehfilID = q.MehfilID
	}

	users, err := s.repo.User.ListAvailable(ctx, filter)
	if err != nil {
		s.logger.Error("查询候选 karkun 失败", zap.Uint("zone_id", *q.ZoneID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserBrief, 0, len(users))
	for i := range users {
		result = append(result, *dto.ToUserBrief(&users[i]))
	}
	return result, nil
}

// ────────────────────── GetByID / ListByKarkun ──────────────────────

func (s *dutyRosterService) GetByID(ctx context.Context, id uint) (*dto.DutyRosterDetailResponse, error) {
	roster, err := findRoster(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDutyRosterDetailResponse(roster)
	return &resp, nil
}

func (s *dutyRosterService) ListByKarkun(ctx context.Context, userID uint) ([]dto.DutyRosterDetailResponse, error) {
	rosters, err := s.repo.DutyRoster.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询 karkun 名册失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DutyRosterDetailResponse, 0, len(rosters))
	for i := range rosters {
		result = append(result, dto.ToDutyRosterDetailResponse(&rosters[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *dutyRosterService) Update(ctx context.Context, id uint, req *dto.UpdateDutyRosterRequest, callerID *uint) (*dto.DutyRosterDetailResponse, error) {
	roster, err := findRoster(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	oldMehfilID := roster.MehfilDirectoryID

	if req.UserID != nil && *req.UserID != 0 && *req.UserID != roster.UserID {
		if _, err := s.getUser(ctx, *req.UserID); err != nil {
			return nil, err
		}
		roster.UserID = *req.UserID
	}
	if req.MehfilDirectoryID != nil && *req.MehfilDirectoryID != 0 && *req.MehfilDirectoryID != roster.MehfilDirectoryID {
		mehfil, err := s.getMehfil(ctx, *req.MehfilDirectoryID)
		if err != nil {
			return nil, err
		}
		roster.MehfilDirectoryID = mehfil.ID
		roster.ZoneID = mehfil.ZoneID
	}
	if req.ZoneID != nil && *req.ZoneID != 0 && *req.ZoneID != roster.ZoneID {
		return nil, ErrMehfilZoneMismatch
	}
	if req.UpdatedBy != nil {
		roster.UpdatedBy = req.UpdatedBy
	} else if callerID != nil {
		roster.UpdatedBy = callerID
	}

	mehfilChanged := roster.MehfilDirectoryID != oldMehfilID
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		existing, err := txRepo.DutyRoster.GetByUserAndMehfil(ctx, roster.UserID, roster.MehfilDirectoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询名册失败", zap.Uint("id", id), zap.Error(err))
			return err
		}
		if existing != nil && existing.ID != roster.ID {
			return ErrRosterExists
		}

		if mehfilChanged {
			if err := s.checkCoordinatorsMovable(ctx, txRepo, roster); err != nil {
				return err
			}
		}

		if err := txRepo.DutyRoster.Update(ctx, roster); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRosterExists
			}
			s.logger.Error("更新名册失败", zap.Uint("id", id), zap.Error(err))
			return err
		}

		if mehfilChanged {
			if err := txRepo.DutyRosterAssignment.UpdateMehfilByRoster(ctx, roster.ID, roster.MehfilDirectoryID); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrCoordinatorAlreadyAssigned
				}
				s.logger.Error("同步值班安排 mehfil 失败", zap.Uint("id", id), zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// checkCoordinatorsMovable 名册迁往新 mehfil 时，其 coordinator 值班不得与新 mehfil 冲突
func (s *dutyRosterService) checkCoordinatorsMovable(ctx context.Context, txRepo *repository.Repository, roster *model.DutyRoster) error {
	if err := txRepo.DutyRoster.LockByMehfil(ctx, roster.MehfilDirectoryID); err != nil {
		s.logger.Error("锁定 mehfil 名册失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
		return err
	}
	rosterIDs, err := txRepo.DutyRoster.ListIDsByMehfil(ctx, roster.MehfilDirectoryID)
	if err != nil {
		s.logger.Error("查询 mehfil 名册失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
		return err
	}
	for _, a := range roster.Assignments {
		if !a.IsCoordinator {
			continue
		}
		taken, err := txRepo.DutyRosterAssignment.ExistsForRosters(ctx, rosterIDs, a.DutyTypeID, a.Day)
		if err != nil {
			s.logger.Error("查询 coordinator 安排失败", zap.Uint("mehfil_id", roster.MehfilDirectoryID), zap.Error(err))
			return err
		}
		if taken {
			return ErrCoordinatorAlreadyAssigned
		}
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *dutyRosterService) Delete(ctx context.Context, id uint) error {
	if _, err := findRoster(ctx, s.repo, s.logger, id); err != nil {
		return err
	}

	return s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.DutyRosterAssignment.DeleteByRoster(ctx, id); err != nil {
			s.logger.Error("删除名册值班安排失败", zap.Uint("id", id), zap.Error(err))
			return err
		}
		if err := txRepo.DutyRoster.Delete(ctx, id); err != nil {
			s.logger.Error("删除名册失败", zap.Uint("id", id), zap.Error(err))
			return err
		}
		return nil
	})
}

// ── 内部方法 ──

func (s *dutyRosterService) getMehfil(ctx context.Context, id uint) (*model.MehfilDirectory, error) {
	return findMehfil(ctx, s.repo, s.logger, id)
}

func (s *dutyRosterService) getUser(ctx context.Context, id uint) (*model.User, error) {
	return findUser(ctx, s.repo, s.logger, id)
}
