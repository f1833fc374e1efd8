package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/response"
)

// DutyRosterHandler 值班名册 HTTP 处理器（名册、单条值班、导出、日历）
type DutyRosterHandler struct {
	rosterSvc     service.DutyRosterService
	assignmentSvc service.DutyRosterAssignmentService
	exportSvc     service.ExportService
	calendarSvc   service.CalendarService
}

// NewDutyRosterHandler 创建 DutyRosterHandler
func NewDutyRosterHandler(
	rosterSvc service.DutyRosterService,
	assignmentSvc service.DutyRosterAssignmentService,
	exportSvc service.ExportService,
	calendarSvc service.CalendarService,
) *DutyRosterHandler {
	return &DutyRosterHandler{
		rosterSvc:     rosterSvc,
		assignmentSvc: assignmentSvc,
		exportSvc:     exportSvc,
		calendarSvc:   calendarSvc,
	}
}

// ────────────────────── 查询 ──────────────────────

// ListRosters 名册列表；未提供 zoneId 时 showTable=false
// GET /api/v1/duty-rosters-data?zoneId=&mehfilDirectoryId=&userTypeFilter=&search=
func (h *DutyRosterHandler) ListRosters(c *gin.Context) {
	var req dto.DutyRosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, err := h.rosterSvc.List(c.Request.Context(), toRosterQuery(&req))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// AvailableKarkuns 可加入名册的候选人
// GET /api/v1/duty-rosters-data/available-karkuns
func (h *DutyRosterHandler) AvailableKarkuns(c *gin.Context) {
	var req dto.DutyRosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	users, err := h.rosterSvc.AvailableKarkuns(c.Request.Context(), toRosterQuery(&req))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, users)
}

// GetRoster 名册详情
// GET /api/v1/duty-rosters-data/:id
func (h *DutyRosterHandler) GetRoster(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roster, err := h.rosterSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, roster)
}

// ListAssignments 名册的值班安排，按周一到周日排序
// GET /api/v1/duty-rosters-data/:id/assignments
func (h *DutyRosterHandler) ListAssignments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListByRoster(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// ListByKarkun 某个人在各 mehfil 的名册
// GET /api/v1/duty-rosters-data/karkun/:ehadKarkunId
func (h *DutyRosterHandler) ListByKarkun(c *gin.Context) {
	userID, ok := parseIDParam(c, "ehadKarkunId")
	if !ok {
		return
	}

	list, err := h.rosterSvc.ListByKarkun(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// ────────────────────── 名册写操作 ──────────────────────

// CreateRoster 加入名册，可同时预填每天的值班
// POST /api/v1/duty-rosters-data/add
func (h *DutyRosterHandler) CreateRoster(c *gin.Context) {
	var req dto.CreateDutyRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	roster, err := h.rosterSvc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "Karkun added to the roster successfully", roster)
}

// UpdateRoster 更新名册
// PUT /api/v1/duty-rosters-data/update/:id
func (h *DutyRosterHandler) UpdateRoster(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDutyRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	roster, err := h.rosterSvc.Update(c.Request.Context(), id, &req, callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OKWithMessage(c, "Duty roster updated successfully", roster)
}

// DeleteRoster 删除名册及其全部值班
// DELETE /api/v1/duty-rosters-data/:id
func (h *DutyRosterHandler) DeleteRoster(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.rosterSvc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OKWithMessage(c, "Duty roster deleted successfully", nil)
}

// ────────────────────── 单条值班 ──────────────────────

// AddDuty 为名册添加一条值班
// POST /api/v1/duty-rosters-data/add-duty
func (h *DutyRosterHandler) AddDuty(c *gin.Context) {
	var req dto.AddDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "Duty added successfully", assignment)
}

// RemoveDuty 删除一条值班
// DELETE /api/v1/duty-rosters-data/remove-duty/:id
func (h *DutyRosterHandler) RemoveDuty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OKWithMessage(c, "Duty removed successfully", nil)
}

// ────────────────────── 导出 ──────────────────────

// ExportRosters 导出名册表格
// GET /api/v1/duty-rosters-data/export?zoneId=&mehfilDirectoryId=&userTypeFilter=&search=
func (h *DutyRosterHandler) ExportRosters(c *gin.Context) {
	var req dto.DutyRosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	buf, filename, err := h.exportSvc.ExportRosters(c.Request.Context(), toRosterQuery(&req))
	if err != nil {
		response.Fail(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// KarkunCalendar 个人每周值班的 iCalendar 订阅
// GET /api/v1/duty-rosters-data/karkun/:ehadKarkunId/calendar
func (h *DutyRosterHandler) KarkunCalendar(c *gin.Context) {
	userID, ok := parseIDParam(c, "ehadKarkunId")
	if !ok {
		return
	}

	content, filename, err := h.calendarSvc.KarkunCalendar(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}
