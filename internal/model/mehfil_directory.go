package model

// MehfilDirectory mehfil 目录表 — 对应 mehfil_directories
type MehfilDirectory struct {
	ID               uint   `gorm:"primaryKey"                 json:"id"`
	ZoneID           uint   `gorm:"not null"                   json:"zone_id"`
	MehfilNumber     string `gorm:"type:varchar(50);not null"  json:"mehfil_number"`
	NameEn           string `gorm:"type:varchar(200);not null" json:"name_en"`
	NameUr           string `gorm:"type:varchar(200)"          json:"name_ur,omitempty"`
	AddressEn        string `gorm:"type:text"                  json:"address_en,omitempty"`
	AddressUr        string `gorm:"type:text"                  json:"address_ur,omitempty"`
	CoordinatorName  string `gorm:"type:varchar(150)"          json:"coordinator_name,omitempty"`
	CoordinatorPhone string `gorm:"type:varchar(50)"           json:"coordinator_phone,omitempty"`
	IsPublished      bool   `gorm:"not null;default:false"     json:"is_published"`
	BaseModel

	// 关联
	Zone *Zone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

func (MehfilDirectory) TableName() string { return "mehfil_directories" }

// MehfilReport mehfil 月度报告 — 对应 mehfil_reports（只读输入）
type MehfilReport struct {
	ID                uint   `gorm:"primaryKey"            json:"id"`
	ZoneID            uint   `gorm:"not null"              json:"zone_id"`
	MehfilDirectoryID uint   `gorm:"not null"              json:"mehfil_directory_id"`
	ReportMonth       int    `gorm:"type:smallint;not null" json:"report_month"`
	ReportYear        int    `gorm:"type:smallint;not null" json:"report_year"`
	TotalAttendance   int    `gorm:"not null;default:0"    json:"total_attendance"`
	TotalKarkuns      int    `gorm:"not null;default:0"    json:"total_karkuns"`
	Remarks           string `gorm:"type:text"             json:"remarks,omitempty"`
	SubmittedBy       *uint  `json:"submitted_by,omitempty"`
	BaseModel
}

func (MehfilReport) TableName() string { return "mehfil_reports" }
