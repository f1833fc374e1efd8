package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/pagination"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/response"
)

const defaultPageSize = "10"

// DutyTypeHandler 值班类型 HTTP 处理器
type DutyTypeHandler struct {
	dutyTypeSvc service.DutyTypeService
	baseURL     string
}

// NewDutyTypeHandler 创建 DutyTypeHandler
func NewDutyTypeHandler(dutyTypeSvc service.DutyTypeService, baseURL string) *DutyTypeHandler {
	return &DutyTypeHandler{dutyTypeSvc: dutyTypeSvc, baseURL: baseURL}
}

// ListDutyTypes 分页列表
// GET /api/v1/duty-types?page=&size=&search=
func (h *DutyTypeHandler) ListDutyTypes(c *gin.Context) {
	var req dto.DutyTypeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if req.Size == "" {
		req.Size = defaultPageSize
	}

	page := pagination.Paginate(req.Page, req.Size)
	list, total, err := h.dutyTypeSvc.List(c.Request.Context(), page, req.Search)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OKPage(c, list, pagination.Construct(total, page, h.baseURL+c.Request.URL.Path))
}

// ListActiveDutyTypes 全部值班类型（下拉框使用）
// GET /api/v1/duty-types/active
func (h *DutyTypeHandler) ListActiveDutyTypes(c *gin.Context) {
	list, err := h.dutyTypeSvc.ListActive(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// CreateDutyType 新建值班类型
// POST /api/v1/duty-types/add
func (h *DutyTypeHandler) CreateDutyType(c *gin.Context) {
	var req dto.CreateDutyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.CreatedBy == nil {
		req.CreatedBy = callerID(c)
	}

	dt, err := h.dutyTypeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "Duty type created successfully", dt)
}

// UpdateDutyType 部分更新
// PUT /api/v1/duty-types/update/:id
func (h *DutyTypeHandler) UpdateDutyType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDutyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.UpdatedBy == nil {
		req.UpdatedBy = callerID(c)
	}

	dt, err := h.dutyTypeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OKWithMessage(c, "Duty type updated successfully", dt)
}

// DeleteDutyType 删除值班类型
// DELETE /api/v1/duty-types/:id
func (h *DutyTypeHandler) DeleteDutyType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dutyTypeSvc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OKWithMessage(c, "Duty type deleted successfully", nil)
}
