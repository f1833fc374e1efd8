package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/service"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/response"
)

// GetPrincipal 读取 JWT 中间件注入的当前用户，未认证时返回 nil
func GetPrincipal(c *gin.Context) *dto.Principal {
	v, exists := c.Get("principal")
	if !exists {
		return nil
	}
	p, ok := v.(*dto.Principal)
	if !ok {
		return nil
	}
	return p
}

// MustGetPrincipal 与 GetPrincipal 相同，缺失时写入 401。
// 调用方应在 ok=false 时直接 return。
func MustGetPrincipal(c *gin.Context) (*dto.Principal, bool) {
	p := GetPrincipal(c)
	if p == nil {
		response.Fail(c, service.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}

// callerID 当前用户 ID，用于 created_by / updated_by 的默认值
func callerID(c *gin.Context) *uint {
	if p := GetPrincipal(c); p != nil {
		id := p.UserID
		return &id
	}
	return nil
}

// parseOptionalUint 非正整数或非数字一律视为未提供
func parseOptionalUint(raw string) *uint {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

// parseIDParam 解析路径参数中的 ID，非法时写入 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id := parseOptionalUint(c.Param(name))
	if id == nil {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return *id, true
}

// toRosterQuery 名册列表、候选人与导出共用的查询参数
func toRosterQuery(req *dto.DutyRosterListRequest) dto.RosterQuery {
	return dto.RosterQuery{
		ZoneID:         parseOptionalUint(req.ZoneID),
		MehfilID:       parseOptionalUint(req.MehfilDirectoryID),
		UserTypeFilter: strings.TrimSpace(req.UserTypeFilter),
		Search:         req.Search,
	}
}
