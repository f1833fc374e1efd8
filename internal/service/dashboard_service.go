package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
)

// StatsCache 仪表盘结果缓存，*redis.Client 满足该接口
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService 仪表盘业务接口
type DashboardService interface {
	GetStats(ctx context.Context, principal *dto.Principal, filters dto.DashboardFilters) (*dto.DashboardStatsResponse, error)
	GetZones(ctx context.Context, principal *dto.Principal) ([]dto.ZoneResponse, error)
	GetMehfils(ctx context.Context, zoneID uint) ([]dto.MehfilResponse, error)
}

type dashboardService struct {
	repo     *repository.Repository
	cache    StatsCache // 可为 nil
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例；cache 为 nil 时不缓存
func NewDashboardService(repo *repository.Repository, cache StatsCache, cacheTTL time.Duration, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// 可见范围
// ═══════════════════════════════════════════════════════════

// visibilityScope 当前用户可见的 zone 集合，所有统计块共用
type visibilityScope struct {
	zones   []model.Zone
	zoneIDs []uint
}

func (v *visibilityScope) contains(zoneID uint) bool {
	for _, id := range v.zoneIDs {
		if id == zoneID {
			return true
		}
	}
	return false
}

// resolveVisibilityScope 判定顺序：
// all-region admin → 全部 zone；region admin → 本 region 的 zone；
// zone admin → 本 zone；其余（含仅有 super admin 标记者）→ 本人 zone；无 zone → 空。
func (s *dashboardService) resolveVisibilityScope(ctx context.Context, p *dto.Principal) (*visibilityScope, error) {
	var zones []model.Zone
	var err error

	switch {
	case p.IsAllRegionAdmin:
		zones, err = s.repo.Zone.ListAll(ctx)
	case p.IsRegionAdmin && p.RegionID != nil:
		zones, err = s.repo.Zone.ListByRegion(ctx, *p.RegionID)
	case p.IsZoneAdmin && p.ZoneID != nil:
		fallthrough
	case p.ZoneID != nil:
		zones, err = s.repo.Zone.ListByIDs(ctx, []uint{*p.ZoneID})
	default:
		zones = []model.Zone{}
	}
	if err != nil {
		s.logger.Error("查询可见 zone 失败", zap.Uint("user_id", p.UserID), zap.Error(err))
		return nil, err
	}

	scope := &visibilityScope{zones: zones, zoneIDs: make([]uint, 0, len(zones))}
	for _, z := range zones {
		scope.zoneIDs = append(scope.zoneIDs, z.ID)
	}
	return scope, nil
}

// ────────────────────── GetZones / GetMehfils ──────────────────────

func (s *dashboardService) GetZones(ctx context.Context, principal *dto.Principal) ([]dto.ZoneResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	scope, err := s.resolveVisibilityScope(ctx, principal)
	if err != nil {
		return nil, err
	}
	return toZoneResponses(scope.zones), nil
}

func (s *dashboardService) GetMehfils(ctx context.Context, zoneID uint) ([]dto.MehfilResponse, error) {
	if zoneID == 0 {
		return []dto.MehfilResponse{}, nil
	}
	mehfils, err := s.repo.Mehfil.ListPublishedByZone(ctx, zoneID)
	if err != nil {
		s.logger.Error("查询 zone mehfil 失败", zap.Uint("zone_id", zoneID), zap.Error(err))
		return nil, err
	}
	return toMehfilResponses(mehfils), nil
}

// ═══════════════════════════════════════════════════════════
// GetStats：四个统计块并发计算后合并
// ═══════════════════════════════════════════════════════════

func (s *dashboardService) GetStats(ctx context.Context, principal *dto.Principal, filters dto.DashboardFilters) (*dto.DashboardStatsResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if filters.Month < 1 || filters.Month > 12 {
		return nil, ErrInvalidMonth
	}
	if filters.Year <= 0 {
		return nil, ErrInvalidYear
	}

	scope, err := s.resolveVisibilityScope(ctx, principal)
	if err != nil {
		return nil, err
	}
	statsScope, err := s.effectiveScope(ctx, scope, filters)
	if err != nil {
		return nil, err
	}

	cacheKey := statsCacheKey(principal, scope.zoneIDs, filters)
	if s.cache != nil {
		var cached dto.DashboardStatsResponse
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("读取仪表盘缓存失败", zap.String("key", cacheKey), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	resp := &dto.DashboardStatsResponse{
		SelectedMonth: filters.Month,
		SelectedYear:  filters.Year,
		Zones:         toZoneResponses(scope.zones),
		Mehfils:       []dto.MehfilResponse{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		basic, err := s.calculateBasicStats(gctx, statsScope, filters)
		if err != nil {
			return err
		}
		resp.BasicStats = *basic
		return nil
	})
	g.Go(func() error {
		block, err := s.calculateZoneAdminStats(gctx, principal, scope, filters)
		resp.ZoneAdminStats = block
		return err
	})
	g.Go(func() error {
		block, err := s.calculateMehfilAdminStats(gctx, principal, filters)
		resp.MehfilAdminStats = block
		return err
	})
	g.Go(func() error {
		block, err := s.calculateRegionAdminStats(gctx, principal, scope, filters)
		resp.RegionAdminStats = block
		return err
	})
	g.Go(func() error {
		zoneID := filters.ZoneID
		if zoneID == nil {
			zoneID = principal.ZoneID
		}
		if zoneID == nil {
			return nil
		}
		mehfils, err := s.GetMehfils(gctx, *zoneID)
		if err != nil {
			return err
		}
		resp.Mehfils = mehfils
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			s.logger.Warn("写入仪表盘缓存失败", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return resp, nil
}

// effectiveScope 在可见范围内按 selected_zone_id / selected_mehfil_id 收窄
func (s *dashboardService) effectiveScope(ctx context.Context, scope *visibilityScope, filters dto.DashboardFilters) (repository.StatsScope, error) {
	result := repository.StatsScope{ZoneIDs: scope.zoneIDs}

	if filters.ZoneID != nil {
		if !scope.contains(*filters.ZoneID) {
			return result, ErrZoneNotVisible
		}
		result.ZoneIDs = []uint{*filters.ZoneID}
	}

	if filters.MehfilID != nil {
		mehfil, err := findMehfil(ctx, s.repo, s.logger, *filters.MehfilID)
		if err != nil {
			return result, err
		}
		if !scope.contains(mehfil.ZoneID) || (filters.ZoneID != nil && *filters.ZoneID != mehfil.ZoneID) {
			return result, ErrMehfilNotVisible
		}
		result.ZoneIDs = []uint{mehfil.ZoneID}
		result.MehfilID = &mehfil.ID
	}
	return result, nil
}

// statsCacheKey 包含角色与可见 zone 的摘要，权限变化后不会命中旧范围的缓存
func statsCacheKey(p *dto.Principal, zoneIDs []uint, f dto.DashboardFilters) string {
	zone, mehfil := "-", "-"
	if f.ZoneID != nil {
		zone = fmt.Sprint(*f.ZoneID)
	}
	if f.MehfilID != nil {
		mehfil = fmt.Sprint(*f.MehfilID)
	}
	return fmt.Sprintf("dashboard:stats:%d:%d:%d:%s:%s:%x", p.UserID, f.Year, f.Month, zone, mehfil, scopeDigest(p, zoneIDs))
}

func scopeDigest(p *dto.Principal, zoneIDs []uint) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%t%t%t%t%t|%s|%s|%s|", p.UserType,
		p.IsSuperAdmin, p.IsAllRegionAdmin, p.IsRegionAdmin, p.IsZoneAdmin, p.IsMehfilAdmin,
		optID(p.RegionID), optID(p.ZoneID), optID(p.MehfilDirectoryID))

	ids := append([]uint(nil), zoneIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(h, "%d,", id)
	}
	return h.Sum64()
}

func optID(id *uint) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

// ── 统计块 ──

func (s *dashboardService) calculateBasicStats(ctx context.Context, statsScope repository.StatsScope, f dto.DashboardFilters) (*dto.BasicStats, error) {
	stats := &dto.BasicStats{TotalZones: int64(len(statsScope.ZoneIDs))}

	c, err := s.countScope(ctx, statsScope, f)
	if err != nil {
		return nil, err
	}
	stats.TotalMehfils = c.mehfils
	stats.TotalKarkuns = c.karkuns
	stats.TotalEhadKarkuns = c.ehadKarkuns
	stats.ReportsSubmitted = c.submitted
	stats.ReportsPending = c.pending()
	return stats, nil
}

// calculateZoneAdminStats zone 管理员或选定 zone 时返回
func (s *dashboardService) calculateZoneAdminStats(ctx context.Context, p *dto.Principal, scope *visibilityScope, f dto.DashboardFilters) (*dto.ZoneAdminStats, error) {
	var zoneID uint
	switch {
	case f.ZoneID != nil:
		zoneID = *f.ZoneID
	case p.IsZoneAdmin && p.ZoneID != nil && scope.contains(*p.ZoneID):
		zoneID = *p.ZoneID
	default:
		return nil, nil
	}
	zs := repository.StatsScope{ZoneIDs: []uint{zoneID}}

	c, err := s.countScope(ctx, zs, f)
	if err != nil {
		return nil, err
	}
	rosters, err := s.repo.DutyRoster.Count(ctx, zs)
	if err != nil {
		s.logger.Error("统计 zone 名册失败", zap.Uint("zone_id", zoneID), zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.DutyRosterAssignment.Count(ctx, zs)
	if err != nil {
		s.logger.Error("统计 zone 值班安排失败", zap.Uint("zone_id", zoneID), zap.Error(err))
		return nil, err
	}
	coverage, err := s.repo.DutyRosterAssignment.CoordinatorCoverage(ctx, zs)
	if err != nil {
		s.logger.Error("统计 coordinator 覆盖失败", zap.Uint("zone_id", zoneID), zap.Error(err))
		return nil, err
	}

	return &dto.ZoneAdminStats{
		ZoneID:                  zoneID,
		ZoneMehfils:             c.mehfils,
		ZoneKarkuns:             c.karkuns,
		ZoneDutyRosters:         rosters,
		ZoneDutyAssignments:     assignments,
		ZoneCoordinatorCoverage: dayCountMap(coverage),
		ZoneReportsSubmitted:    c.submitted,
		ZoneReportsPending:      c.pending(),
	}, nil
}

// calculateMehfilAdminStats mehfil 管理员或选定 mehfil 时返回
func (s *dashboardService) calculateMehfilAdminStats(ctx context.Context, p *dto.Principal, f dto.DashboardFilters) (*dto.MehfilAdminStats, error) {
	var mehfilID uint
	switch {
	case f.MehfilID != nil:
		mehfilID = *f.MehfilID
	case p.IsMehfilAdmin && p.MehfilDirectoryID != nil:
		mehfilID = *p.MehfilDirectoryID
	default:
		return nil, nil
	}
	ms := repository.StatsScope{MehfilID: &mehfilID}

	karkuns, err := s.repo.User.CountByType(ctx, ms, model.UserTypeKarkun)
	if err != nil {
		s.logger.Error("统计 mehfil karkun 失败", zap.Uint("mehfil_id", mehfilID), zap.Error(err))
		return nil, err
	}
	rosters, err := s.repo.DutyRoster.Count(ctx, ms)
	if err != nil {
		s.logger.Error("统计 mehfil 名册失败", zap.Uint("mehfil_id", mehfilID), zap.Error(err))
		return nil, err
	}
	byDay, err := s.repo.DutyRosterAssignment.CountByDay(ctx, ms)
	if err != nil {
		s.logger.Error("统计 mehfil 每日值班失败", zap.Uint("mehfil_id", mehfilID), zap.Error(err))
		return nil, err
	}
	coverage, err := s.repo.DutyRosterAssignment.CoordinatorCoverage(ctx, ms)
	if err != nil {
		s.logger.Error("统计 mehfil coordinator 失败", zap.Uint("mehfil_id", mehfilID), zap.Error(err))
		return nil, err
	}
	submitted, err := s.repo.MehfilReport.CountSubmitted(ctx, ms, f.Month, f.Year)
	if err != nil {
		s.logger.Error("统计 mehfil 月报失败", zap.Uint("mehfil_id", mehfilID), zap.Error(err))
		return nil, err
	}

	coverageMap := dayCountMap(coverage)
	days := make([]string, 0, len(model.Weekdays))
	for _, d := range model.Weekdays {
		if coverageMap[d] > 0 {
			days = append(days, d)
		}
	}

	return &dto.MehfilAdminStats{
		MehfilID:              mehfilID,
		MehfilKarkuns:         karkuns,
		MehfilDutyRosters:     rosters,
		MehfilDutiesByDay:     dayCountMap(byDay),
		MehfilCoordinatorDays: days,
		MehfilReportSubmitted: submitted > 0,
	}, nil
}

// calculateRegionAdminStats 逐个可见 zone 统计（N+1 查询，数据量小）
func (s *dashboardService) calculateRegionAdminStats(ctx context.Context, p *dto.Principal, scope *visibilityScope, f dto.DashboardFilters) (*dto.RegionAdminStats, error) {
	if !p.IsRegionAdmin && !p.IsAllRegionAdmin {
		return nil, nil
	}

	result := &dto.RegionAdminStats{RegionZones: make([]dto.RegionZoneStats, 0, len(scope.zones))}
	for _, z := range scope.zones {
		c, err := s.countScope(ctx, repository.StatsScope{ZoneIDs: []uint{z.ID}}, f)
		if err != nil {
			return nil, err
		}
		result.RegionZones = append(result.RegionZones, dto.RegionZoneStats{
			ZoneID:           z.ID,
			TitleEn:          z.TitleEn,
			Mehfils:          c.mehfils,
			Karkuns:          c.karkuns,
			ReportsSubmitted: c.submitted,
			ReportsPending:   c.pending(),
		})
	}
	return result, nil
}

// scopeCounts 各统计块共用的基础计数
type scopeCounts struct {
	mehfils     int64
	karkuns     int64
	ehadKarkuns int64
	submitted   int64
}

func (c scopeCounts) pending() int64 {
	if c.mehfils > c.submitted {
		return c.mehfils - c.submitted
	}
	return 0
}

func (s *dashboardService) countScope(ctx context.Context, scope repository.StatsScope, f dto.DashboardFilters) (scopeCounts, error) {
	var c scopeCounts
	var err error

	if c.mehfils, err = s.repo.Mehfil.CountPublished(ctx, scope); err != nil {
		s.logger.Error("统计 mehfil 失败", zap.Error(err))
		return c, err
	}
	if c.karkuns, err = s.repo.User.CountByType(ctx, scope, model.UserTypeKarkun); err != nil {
		s.logger.Error("统计 karkun 失败", zap.Error(err))
		return c, err
	}
	if c.ehadKarkuns, err = s.repo.User.CountByType(ctx, scope, model.UserTypeEhadKarkun); err != nil {
		s.logger.Error("统计 ehad karkun 失败", zap.Error(err))
		return c, err
	}
	if c.submitted, err = s.repo.MehfilReport.CountSubmitted(ctx, scope, f.Month, f.Year); err != nil {
		s.logger.Error("统计月报失败", zap.Error(err))
		return c, err
	}
	return c, nil
}

// ── 转换 ──

// dayCountMap 七个星期键始终存在
func dayCountMap(rows []repository.DayCount) map[string]int64 {
	m := make(map[string]int64, len(model.Weekdays))
	for _, d := range model.Weekdays {
		m[d] = 0
	}
	for _, r := range rows {
		m[r.Day] = r.Count
	}
	return m
}

func toZoneResponses(zones []model.Zone) []dto.ZoneResponse {
	result := make([]dto.ZoneResponse, 0, len(zones))
	for i := range zones {
		result = append(result, dto.ToZoneResponse(&zones[i]))
	}
	return result
}

func toMehfilResponses(mehfils []model.MehfilDirectory) []dto.MehfilResponse {
	result := make([]dto.MehfilResponse, 0, len(mehfils))
	for i := range mehfils {
		result = append(result, dto.ToMehfilResponse(&mehfils[i]))
	}
	return result
}
