package model

import (
	"strings"
	"time"
)

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AuditModel 带操作人的审计字段
type AuditModel struct {
	BaseModel
	CreatedBy *uint `json:"created_by,omitempty"`
	UpdatedBy *uint `json:"updated_by,omitempty"`
}

// ── 星期 ──

// Weekdays 一周七天，按周一 → 周日排列
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		m[d] = i
	}
	return m
}()

// NormalizeDay 转小写并校验是否为合法星期
func NormalizeDay(day string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(day))
	_, ok := weekdayIndex[d]
	return d, ok
}

// DayIndex 返回星期序号（monday=0），非法值返回 -1
func DayIndex(day string) int {
	if i, ok := weekdayIndex[day]; ok {
		return i
	}
	return -1
}

// DayOrderSQL 按周一 → 周日排序的 ORDER BY 表达式
const DayOrderSQL = "CASE day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 " +
	"WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 WHEN 'sunday' THEN 7 END"
