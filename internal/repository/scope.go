package repository

import (
	"strings"

	"gorm.io/gorm"
)

// StatsScope 统计查询的可见范围
// MehfilID 非空时优先按 mehfil 过滤，否则按 ZoneIDs 过滤
type StatsScope struct {
	ZoneIDs  []uint
	MehfilID *uint
}

// Empty 范围内不可能有数据
func (s StatsScope) Empty() bool {
	return s.MehfilID == nil && len(s.ZoneIDs) == 0
}

// applyScope 将范围条件拼接到查询上
func applyScope(db *gorm.DB, zoneCol, mehfilCol string, scope StatsScope) *gorm.DB {
	if scope.MehfilID != nil {
		return db.Where(mehfilCol+" = ?", *scope.MehfilID)
	}
	return db.Where(zoneCol+" IN ?", scope.ZoneIDs)
}

// ilike 与 likePattern 配合使用的条件片段
const ilike = " ILIKE ? ESCAPE '\\'"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern 生成 ILIKE 子串匹配模式，搜索文本中的通配符按字面匹配
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
