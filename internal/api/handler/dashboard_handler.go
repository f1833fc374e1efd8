package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/response"
)

// DashboardHandler 仪表盘 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetStats 按角色范围汇总统计
// GET /api/v1/dashboard/stats?selected_month=&selected_year=&selected_zone_id=&selected_mehfil_id=
func (h *DashboardHandler) GetStats(c *gin.Context) {
	principal, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.DashboardStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	// 非数字按 0 处理，由 Service 返回校验错误
	month, _ := strconv.Atoi(req.SelectedMonth)
	year, _ := strconv.Atoi(req.SelectedYear)
	filters := dto.DashboardFilters{
		Month:    month,
		Year:     year,
		ZoneID:   parseOptionalUint(req.SelectedZoneID),
		MehfilID: parseOptionalUint(req.SelectedMehfilID),
	}

	stats, err := h.dashboardSvc.GetStats(c.Request.Context(), principal, filters)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, stats)
}

// GetZones 当前用户可见的 zone
// GET /api/v1/dashboard/zones
func (h *DashboardHandler) GetZones(c *gin.Context) {
	principal, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	zones, err := h.dashboardSvc.GetZones(c.Request.Context(), principal)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, zones)
}

// GetMehfils zone 下已发布的 mehfil，zone_id 非法时返回空列表
// GET /api/v1/dashboard/mehfils/:zone_id
func (h *DashboardHandler) GetMehfils(c *gin.Context) {
	var zoneID uint
	if id := parseOptionalUint(c.Param("zone_id")); id != nil {
		zoneID = *id
	}

	mehfils, err := h.dashboardSvc.GetMehfils(c.Request.Context(), zoneID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, mehfils)
}
