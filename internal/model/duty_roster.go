package model

import "strings"

// CoordinatorDutyName 全局唯一约束的特殊值班类型（忽略大小写）
const CoordinatorDutyName = "coordinator"

// DutyType 值班类型表 — 对应 duty_types
type DutyType struct {
	ID          uint   `gorm:"primaryKey"                 json:"id"`
	ZoneID      uint   `gorm:"not null"                   json:"zone_id"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `gorm:"type:text"                  json:"description,omitempty"`
	IsEditable  bool   `gorm:"not null"                   json:"is_editable"`
	IsHidden    bool   `gorm:"not null;default:false"     json:"is_hidden"`
	AuditModel
}

func (DutyType) TableName() string { return "duty_types" }

// IsCoordinator 是否为 coordinator 类型
func (t *DutyType) IsCoordinator() bool {
	return strings.EqualFold(strings.TrimSpace(t.Name), CoordinatorDutyName)
}

// DutyRoster 值班名册表 — 对应 duty_rosters
// (user_id, mehfil_directory_id) 唯一
type DutyRoster struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	UserID            uint `gorm:"not null"   json:"user_id"`
	ZoneID            uint `gorm:"not null"   json:"zone_id"`
	MehfilDirectoryID uint `gorm:"not null"   json:"mehfil_directory_id"`
	AuditModel

	// 关联
	User        *User                  `gorm:"foreignKey:UserID"                           json:"user,omitempty"`
	Zone        *Zone                  `gorm:"foreignKey:ZoneID"                           json:"zone,omitempty"`
	Mehfil      *MehfilDirectory       `gorm:"foreignKey:MehfilDirectoryID"                json:"mehfil,omitempty"`
	Assignments []DutyRosterAssignment `gorm:"foreignKey:DutyRosterID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

func (DutyRoster) TableName() string { return "duty_rosters" }

// DutyRosterAssignment 值班安排表 — 对应 duty_roster_assignments
// (duty_roster_id, duty_type_id, day) 唯一；coordinator 另有 (mehfil_directory_id, duty_type_id, day) 部分唯一索引
type DutyRosterAssignment struct {
	ID                uint   `gorm:"primaryKey"                json:"id"`
	DutyRosterID      uint   `gorm:"not null"                  json:"duty_roster_id"`
	DutyTypeID        uint   `gorm:"not null"                  json:"duty_type_id"`
	Day               string `gorm:"type:varchar(10);not null" json:"day"`
	MehfilDirectoryID uint   `gorm:"not null"                  json:"mehfil_directory_id"` // 冗余自 duty_rosters
	IsCoordinator     bool   `gorm:"not null;default:false"    json:"is_coordinator"`      // 冗余自 duty_types
	CreatedBy         *uint  `json:"created_by,omitempty"`
	BaseModel

	// 关联
	DutyType *DutyType `gorm:"foreignKey:DutyTypeID" json:"duty_type,omitempty"`
}

func (DutyRosterAssignment) TableName() string { return "duty_roster_assignments" }
