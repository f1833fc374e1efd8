package service

import (
	"go.uber.org/zap"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/config"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	DutyType             DutyTypeService
	DutyRoster           DutyRosterService
	DutyRosterAssignment DutyRosterAssignmentService
	Dashboard            DashboardService
	Export               ExportService
	Calendar             CalendarService
}

// NewService 创建 Service 聚合；rdb 为 nil 时仪表盘不缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var cache StatsCache
	if rdb != nil {
		cache = rdb
	}

	rosters := NewDutyRosterService(repo, logger)
	return &Service{
		DutyType:             NewDutyTypeService(repo, logger),
		DutyRoster:           rosters,
		DutyRosterAssignment: NewDutyRosterAssignmentService(repo, logger),
		Dashboard:            NewDashboardService(repo, cache, cfg.Dashboard.CacheTTL, logger),
		Export:               NewExportService(repo, rosters, logger),
		Calendar:             NewCalendarService(repo, cfg.Database.Timezone, logger),
	}
}
