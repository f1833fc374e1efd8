package dto

import "github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"

// ── 仪表盘 DTO ──

// DashboardStatsRequest /dashboard/stats 查询参数
type DashboardStatsRequest struct {
	SelectedMonth    string `form:"selected_month"`
	SelectedYear     string `form:"selected_year"`
	SelectedZoneID   string `form:"selected_zone_id"`
	SelectedMehfilID string `form:"selected_mehfil_id"`
}

// DashboardFilters 解析后的仪表盘过滤条件
type DashboardFilters struct {
	Month    int   `json:"month"`
	Year     int   `json:"year"`
	ZoneID   *uint `json:"zone_id,omitempty"`
	MehfilID *uint `json:"mehfil_id,omitempty"`
}

// ZoneResponse 区域信息
type ZoneResponse struct {
	ID        uint   `json:"id"`
	TitleEn   string `json:"title_en"`
	TitleUr   string `json:"title_ur,omitempty"`
	RegionID  *uint  `json:"region_id"`
	CityEn    string `json:"city_en,omitempty"`
	CountryEn string `json:"country_en,omitempty"`
}

// MehfilResponse mehfil 信息
type MehfilResponse struct {
	ID               uint   `json:"id"`
	ZoneID           uint   `json:"zone_id"`
	MehfilNumber     string `json:"mehfil_number"`
	NameEn           string `json:"name_en"`
	NameUr           string `json:"name_ur,omitempty"`
	AddressEn        string `json:"address_en,omitempty"`
	CoordinatorName  string `json:"coordinator_name,omitempty"`
	CoordinatorPhone string `json:"coordinator_phone,omitempty"`
}

// BasicStats 所有角色可见的基础统计
type BasicStats struct {
	TotalZones       int64 `json:"total_zones"`
	TotalMehfils     int64 `json:"total_mehfils"`
	TotalKarkuns     int64 `json:"total_karkuns"`
	TotalEhadKarkuns int64 `json:"total_ehad_karkuns"`
	ReportsSubmitted int64 `json:"reports_submitted"`
	ReportsPending   int64 `json:"reports_pending"`
}

// ZoneAdminStats zone 管理员统计
type ZoneAdminStats struct {
	ZoneID                  uint             `json:"zone_id"`
	ZoneMehfils             int64            `json:"zone_mehfils"`
	ZoneKarkuns             int64            `json:"zone_karkuns"`
	ZoneDutyRosters         int64            `json:"zone_duty_rosters"`
	ZoneDutyAssignments     int64            `json:"zone_duty_assignments"`
	ZoneCoordinatorCoverage map[string]int64 `json:"zone_coordinator_coverage"`
	ZoneReportsSubmitted    int64            `json:"zone_reports_submitted"`
	ZoneReportsPending      int64            `json:"zone_reports_pending"`
}

// MehfilAdminStats mehfil 管理员统计
type MehfilAdminStats struct {
	MehfilID              uint             `json:"mehfil_id"`
	MehfilKarkuns         int64            `json:"mehfil_karkuns"`
	MehfilDutyRosters     int64            `json:"mehfil_duty_rosters"`
	MehfilDutiesByDay     map[string]int64 `json:"mehfil_duties_by_day"`
	MehfilCoordinatorDays []string         `json:"mehfil_coordinator_days"`
	MehfilReportSubmitted bool             `json:"mehfil_report_submitted"`
}

// RegionZoneStats 大区视图中单个 zone 的统计
type RegionZoneStats struct {
	ZoneID           uint   `json:"zone_id"`
	TitleEn          string `json:"title_en"`
	Mehfils          int64  `json:"mehfils"`
	Karkuns          int64  `json:"karkuns"`
	ReportsSubmitted int64  `json:"reports_submitted"`
	ReportsPending   int64  `json:"reports_pending"`
}

// RegionAdminStats 大区管理员统计
type RegionAdminStats struct {
	RegionZones []RegionZoneStats `json:"region_zones"`
}

// DashboardStatsResponse 扁平合并的仪表盘响应，角色无关的块为 nil 时不输出
type DashboardStatsResponse struct {
	SelectedMonth int `json:"selected_month"`
	SelectedYear  int `json:"selected_year"`
	BasicStats
	*ZoneAdminStats
	*MehfilAdminStats
	*RegionAdminStats
	Zones   []ZoneResponse   `json:"zones"`
	Mehfils []MehfilResponse `json:"mehfils"`
}

// ToZoneResponse model.Zone → ZoneResponse
func ToZoneResponse(z *model.Zone) ZoneResponse {
	return ZoneResponse{
		ID:        z.ID,
		TitleEn:   z.TitleEn,
		TitleUr:   z.TitleUr,
		RegionID:  z.RegionID,
		CityEn:    z.CityEn,
		CountryEn: z.CountryEn,
	}
}

// ToMehfilResponse model.MehfilDirectory → MehfilResponse
func ToMehfilResponse(m *model.MehfilDirectory) MehfilResponse {
	return MehfilResponse{
		ID:               m.ID,
		ZoneID:           m.ZoneID,
		MehfilNumber:     m.MehfilNumber,
		NameEn:           m.NameEn,
		NameUr:           m.NameUr,
		AddressEn:        m.AddressEn,
		CoordinatorName:  m.CoordinatorName,
		CoordinatorPhone: m.CoordinatorPhone,
	}
}
