package dto

import "github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"

// ── 值班类型 DTO ──

// CreateDutyTypeRequest 创建值班类型请求（zone_id、name 必填，由 service 校验）
type CreateDutyTypeRequest struct {
	ZoneID      *uint   `json:"zone_id"`
	Name        string  `json:"name"        binding:"omitempty,max=150"`
	Description *string `json:"description"`
	IsEditable  *bool   `json:"is_editable"`
	IsHidden    *bool   `json:"is_hidden"`
	CreatedBy   *uint   `json:"created_by"`
}

// UpdateDutyTypeRequest 更新值班类型请求（部分更新）
type UpdateDutyTypeRequest struct {
	ZoneID      *uint   `json:"zone_id"`
	Name        *string `json:"name"        binding:"omitempty,max=150"`
	Description *string `json:"description"`
	IsEditable  *bool   `json:"is_editable"`
	IsHidden    *bool   `json:"is_hidden"`
	UpdatedBy   *uint   `json:"updated_by"`
}

// DutyTypeListRequest 值班类型列表查询参数
type DutyTypeListRequest struct {
	Page   string `form:"page"`
	Size   string `form:"size"`
	Search string `form:"search"`
}

// DutyTypeResponse 值班类型响应
type DutyTypeResponse struct {
	ID          uint   `json:"id"`
	ZoneID      uint   `json:"zone_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsEditable  bool   `json:"is_editable"`
	IsHidden    bool   `json:"is_hidden"`
	CreatedBy   *uint  `json:"created_by"`
	UpdatedBy   *uint  `json:"updated_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ActiveDutyTypeResponse /duty-types/active 的条目，不含 is_hidden
type ActiveDutyTypeResponse struct {
	ID          uint   `json:"id"`
	ZoneID      uint   `json:"zone_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsEditable  bool   `json:"is_editable"`
	CreatedBy   *uint  `json:"created_by"`
	UpdatedBy   *uint  `json:"updated_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ToDutyTypeResponse model.DutyType → DutyTypeResponse
func ToDutyTypeResponse(t *model.DutyType) DutyTypeResponse {
	return DutyTypeResponse{
		ID:          t.ID,
		ZoneID:      t.ZoneID,
		Name:        t.Name,
		Description: t.Description,
		IsEditable:  t.IsEditable,
		IsHidden:    t.IsHidden,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}
}

// ToActiveDutyTypeResponse model.DutyType → ActiveDutyTypeResponse
func ToActiveDutyTypeResponse(t *model.DutyType) ActiveDutyTypeResponse {
	return ActiveDutyTypeResponse{
		ID:          t.ID,
		ZoneID:      t.ZoneID,
		Name:        t.Name,
		Description: t.Description,
		IsEditable:  t.IsEditable,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}
}
