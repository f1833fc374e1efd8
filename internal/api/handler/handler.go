package handler

import (
	"github.com/yasir-hameed381/idreesia-backend1-sub000/config"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	DutyType   *DutyTypeHandler
	DutyRoster *DutyRosterHandler
	Dashboard  *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		DutyType:   NewDutyTypeHandler(svc.DutyType, cfg.Server.BaseURL),
		DutyRoster: NewDutyRosterHandler(svc.DutyRoster, svc.DutyRosterAssignment, svc.Export, svc.Calendar),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
	}
}
