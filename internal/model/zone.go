package model

// Region 大区表 — 对应 regions
type Region struct {
	ID   uint   `gorm:"primaryKey"                 json:"id"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
	BaseModel
}

func (Region) TableName() string { return "regions" }

// Zone 区域表 — 对应 zones
type Zone struct {
	ID        uint   `gorm:"primaryKey"                 json:"id"`
	TitleEn   string `gorm:"type:varchar(150);not null" json:"title_en"`
	TitleUr   string `gorm:"type:varchar(150)"          json:"title_ur,omitempty"`
	RegionID  *uint  `json:"region_id,omitempty"`
	CityEn    string `gorm:"type:varchar(100)"          json:"city_en,omitempty"`
	CityUr    string `gorm:"type:varchar(100)"          json:"city_ur,omitempty"`
	CountryEn string `gorm:"type:varchar(100)"          json:"country_en,omitempty"`
	CountryUr string `gorm:"type:varchar(100)"          json:"country_ur,omitempty"`
	BaseModel

	// 关联
	Region *Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (Zone) TableName() string { return "zones" }
