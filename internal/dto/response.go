package dto

import "github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"

// ── 通用简要信息 ──

// UserBrief 用户简要信息
type UserBrief struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	UserType    string `json:"user_type"`
}

// MehfilBrief mehfil 简要信息
type MehfilBrief struct {
	ID           uint   `json:"id"`
	MehfilNumber string `json:"mehfil_number"`
	NameEn       string `json:"name_en"`
	NameUr       string `json:"name_ur,omitempty"`
}

// Principal 当前登录用户的身份与管理范围
type Principal struct {
	UserID            uint
	UserType          string
	ZoneID            *uint
	RegionID          *uint
	MehfilDirectoryID *uint
	IsSuperAdmin      bool
	IsRegionAdmin     bool
	IsAllRegionAdmin  bool
	IsZoneAdmin       bool
	IsMehfilAdmin     bool
}

// ToUserBrief model.User → UserBrief
func ToUserBrief(u *model.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		UserType:    u.UserType,
	}
}

// ToMehfilBrief model.MehfilDirectory → MehfilBrief
func ToMehfilBrief(m *model.MehfilDirectory) *MehfilBrief {
	if m == nil {
		return nil
	}
	return &MehfilBrief{
		ID:           m.ID,
		MehfilNumber: m.MehfilNumber,
		NameEn:       m.NameEn,
		NameUr:       m.NameUr,
	}
}

// timeLayout 响应中的时间格式
const timeLayout = "2006-01-02T15:04:05Z07:00"
