package model

// 用户类型
const (
	UserTypeKarkun     = "karkun"
	UserTypeEhadKarkun = "EhadKarkun"
)

// User 用户表 — 对应 users（karkun / ehad karkun / 管理员）
type User struct {
	ID                uint   `gorm:"primaryKey"                                json:"id"`
	Name              string `gorm:"type:varchar(150);not null"                json:"name"`
	Email             string `gorm:"type:varchar(255)"                         json:"email,omitempty"`
	PhoneNumber       string `gorm:"type:varchar(50)"                          json:"phone_number,omitempty"`
	UserType          string `gorm:"type:varchar(30);not null;default:'karkun'" json:"user_type"`
	ZoneID            *uint  `json:"zone_id,omitempty"`
	RegionID          *uint  `json:"region_id,omitempty"`
	MehfilDirectoryID *uint  `json:"mehfil_directory_id,omitempty"`
	IsSuperAdmin      bool   `gorm:"not null;default:false"                    json:"is_super_admin"`
	IsRegionAdmin     bool   `gorm:"not null;default:false"                    json:"is_region_admin"`
	IsAllRegionAdmin  bool   `gorm:"not null;default:false"                    json:"is_all_region_admin"`
	IsZoneAdmin       bool   `gorm:"not null;default:false"                    json:"is_zone_admin"`
	IsMehfilAdmin     bool   `gorm:"not null;default:false"                    json:"is_mehfil_admin"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// HasAdminFlag 是否持有任一管理权限
func (u *User) HasAdminFlag() bool {
	return u.IsSuperAdmin || u.IsRegionAdmin || u.IsAllRegionAdmin || u.IsZoneAdmin || u.IsMehfilAdmin
}

// UserTypeForFilter 将查询参数 userTypeFilter 映射为 users.user_type 取值。
// 空值按 karkun 处理。
func UserTypeForFilter(filter string) string {
	switch filter {
	case "", "karkun":
		return UserTypeKarkun
	case "ehad-karkun", "ehad_karkun", "ehadKarkun", UserTypeEhadKarkun:
		return UserTypeEhadKarkun
	default:
		return filter
	}
}
