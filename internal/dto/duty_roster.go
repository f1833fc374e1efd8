package dto

import "github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"

// ── 值班名册 DTO ──

// CreateDutyRosterRequest 将 karkun 加入 mehfil 名册，可同时预填每天的值班类型
type CreateDutyRosterRequest struct {
	UserID            *uint `json:"user_id"`
	ZoneID            *uint `json:"zone_id"`
	MehfilDirectoryID *uint `json:"mehfil_directory_id"`
	CreatedBy         *uint `json:"created_by"`

	DutyTypeIDMonday    *uint `json:"duty_type_id_monday"`
	DutyTypeIDTuesday   *uint `json:"duty_type_id_tuesday"`
	DutyTypeIDWednesday *uint `json:"duty_type_id_wednesday"`
	DutyTypeIDThursday  *uint `json:"duty_type_id_thursday"`
	DutyTypeIDFriday    *uint `json:"duty_type_id_friday"`
	DutyTypeIDSaturday  *uint `json:"duty_type_id_saturday"`
	DutyTypeIDSunday    *uint `json:"duty_type_id_sunday"`
}

// Duties 返回非零的 day → duty_type_id
func (r *CreateDutyRosterRequest) Duties() map[string]uint {
	fields := map[string]*uint{
		"monday":    r.DutyTypeIDMonday,
		"tuesday":   r.DutyTypeIDTuesday,
		"wednesday": r.DutyTypeIDWednesday,
		"thursday":  r.DutyTypeIDThursday,
		"friday":    r.DutyTypeIDFriday,
		"saturday":  r.DutyTypeIDSaturday,
		"sunday":    r.DutyTypeIDSunday,
	}
	duties := make(map[string]uint)
	for day, id := range fields {
		if id != nil && *id != 0 {
			duties[day] = *id
		}
	}
	return duties
}

// UpdateDutyRosterRequest 更新名册请求（部分更新）
type UpdateDutyRosterRequest struct {
	UserID            *uint `json:"user_id"`
	ZoneID            *uint `json:"zone_id"`
	MehfilDirectoryID *uint `json:"mehfil_directory_id"`
	UpdatedBy         *uint `json:"updated_by"`
}

// AddDutyRequest 为名册添加单条值班
type AddDutyRequest struct {
	RosterID   *uint  `json:"rosterId"`
	Day        string `json:"day"`
	DutyTypeID *uint  `json:"dutyTypeId"`
}

// DutyRosterListRequest 名册列表 / 候选人 / 导出的查询参数
// 数字参数以字符串接收，非法值视为未提供
type DutyRosterListRequest struct {
	ZoneID            string `form:"zoneId"`
	MehfilDirectoryID string `form:"mehfilDirectoryId"`
	UserTypeFilter    string `form:"userTypeFilter"`
	Search            string `form:"search"`
}

// RosterQuery 解析后的名册查询条件
type RosterQuery struct {
	ZoneID         *uint
	MehfilID       *uint
	UserTypeFilter string
	Search         string
}

// ── 响应 ──

// AssignmentResponse 单条值班安排
type AssignmentResponse struct {
	ID           uint           `json:"id"`
	DutyRosterID uint           `json:"duty_roster_id"`
	DutyTypeID   uint           `json:"duty_type_id"`
	Day          string         `json:"day"`
	DutyType     *DutyTypeBrief `json:"duty_type"`
	Mehfil       *MehfilBrief   `json:"mehfil,omitempty"` // 仅全区视图
}

// DutyTypeBrief 值班类型简要信息
type DutyTypeBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DutiesByDay weekday → 当天的值班，七个键始终存在
type DutiesByDay map[string][]AssignmentResponse

// NewDutiesByDay 创建七天均为空数组的 DutiesByDay
func NewDutiesByDay() DutiesByDay {
	d := make(DutiesByDay, len(model.Weekdays))
	for _, day := range model.Weekdays {
		d[day] = []AssignmentResponse{}
	}
	return d
}

// RosterRowResponse 单 mehfil 视图：每个名册一行
type RosterRowResponse struct {
	ID                uint         `json:"id"`
	UserID            uint         `json:"user_id"`
	ZoneID            uint         `json:"zone_id"`
	MehfilDirectoryID uint         `json:"mehfil_directory_id"`
	User              *UserBrief   `json:"user"`
	Mehfil            *MehfilBrief `json:"mehfil"`
	Duties            DutiesByDay  `json:"duties"`
}

// KarkunRosterRow 全区视图：同一 karkun 的多个名册合并为一行
type KarkunRosterRow struct {
	UserID    uint          `json:"user_id"`
	User      *UserBrief    `json:"user"`
	RosterIDs []uint        `json:"roster_ids"`
	Mehfils   []MehfilBrief `json:"mehfils"`
	Duties    DutiesByDay   `json:"duties"`
}

// DutyRosterListResponse 名册列表响应；showTable=false 表示尚未选择 zone
type DutyRosterListResponse struct {
	ShowTable bool        `json:"showTable"`
	Data      interface{} `json:"data"`
}

// DutyRosterDetailResponse 名册详情
type DutyRosterDetailResponse struct {
	ID                uint                 `json:"id"`
	UserID            uint                 `json:"user_id"`
	ZoneID            uint                 `json:"zone_id"`
	MehfilDirectoryID uint                 `json:"mehfil_directory_id"`
	CreatedBy         *uint                `json:"created_by"`
	UpdatedBy         *uint                `json:"updated_by"`
	User              *UserBrief           `json:"user,omitempty"`
	Mehfil            *MehfilBrief         `json:"mehfil,omitempty"`
	Assignments       []AssignmentResponse `json:"assignments"`
	CreatedAt         string               `json:"created_at"`
	UpdatedAt         string               `json:"updated_at"`
}

// ToAssignmentResponse model.DutyRosterAssignment → AssignmentResponse
func ToAssignmentResponse(a *model.DutyRosterAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		DutyRosterID: a.DutyRosterID,
		DutyTypeID:   a.DutyTypeID,
		Day:          a.Day,
	}
	if a.DutyType != nil {
		resp.DutyType = &DutyTypeBrief{ID: a.DutyType.ID, Name: a.DutyType.Name}
	}
	return resp
}

// ToAssignmentResponses 批量转换
func ToAssignmentResponses(items []model.DutyRosterAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(items))
	for i := range items {
		out = append(out, ToAssignmentResponse(&items[i]))
	}
	return out
}

// ToDutyRosterDetailResponse model.DutyRoster → DutyRosterDetailResponse
func ToDutyRosterDetailResponse(r *model.DutyRoster) DutyRosterDetailResponse {
	return DutyRosterDetailResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		ZoneID:            r.ZoneID,
		MehfilDirectoryID: r.MehfilDirectoryID,
		CreatedBy:         r.CreatedBy,
		UpdatedBy:         r.UpdatedBy,
		User:              ToUserBrief(r.User),
		Mehfil:            ToMehfilBrief(r.Mehfil),
		Assignments:       ToAssignmentResponses(r.Assignments),
		CreatedAt:         r.CreatedAt.Format(timeLayout),
		UpdatedAt:         r.UpdatedAt.Format(timeLayout),
	}
}
