package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
)

// ── 内存数据源：各 mock repo 共享，便于模拟跨表查询 ──

type mockStore struct {
	zones       map[uint]*model.Zone
	mehfils     map[uint]*model.MehfilDirectory
	users       map[uint]*model.User
	dutyTypes   map[uint]*model.DutyType
	rosters     map[uint]*model.DutyRoster
	assignments map[uint]*model.DutyRosterAssignment
	reports     []model.MehfilReport

	nextID    uint
	lockCalls int
}

func newMockStore() *mockStore {
	return &mockStore{
		zones:       make(map[uint]*model.Zone),
		mehfils:     make(map[uint]*model.MehfilDirectory),
		users:       make(map[uint]*model.User),
		dutyTypes:   make(map[uint]*model.DutyType),
		rosters:     make(map[uint]*model.DutyRoster),
		assignments: make(map[uint]*model.DutyRosterAssignment),
		nextID:      1000,
	}
}

func (m *mockStore) id() uint {
	m.nextID++
	return m.nextID
}

// newMockRepository 构建不持有 *gorm.DB 的 Repository，RunInTx 直接执行回调
func newMockRepository(store *mockStore) *repository.Repository {
	return &repository.Repository{
		Zone:                 &mockZoneRepo{store},
		Mehfil:               &mockMehfilRepo{store},
		User:                 &mockUserRepo{store},
		DutyType:             &mockDutyTypeRepo{store},
		DutyRoster:           &mockDutyRosterRepo{store},
		DutyRosterAssignment: &mockAssignmentRepo{store},
		MehfilReport:         &mockReportRepo{store},
	}
}

// ── 种子数据辅助 ──

func (m *mockStore) addZone(id uint, title string, regionID *uint) *model.Zone {
	z := &model.Zone{ID: id, TitleEn: title, RegionID: regionID}
	m.zones[id] = z
	return z
}

func (m *mockStore) addMehfil(id, zoneID uint, number string, published bool) *model.MehfilDirectory {
	mf := &model.MehfilDirectory{ID: id, ZoneID: zoneID, MehfilNumber: number, NameEn: "Mehfil " + number, IsPublished: published}
	m.mehfils[id] = mf
	return mf
}

func (m *mockStore) addUser(id uint, name, userType string, zoneID uint, mehfilID *uint) *model.User {
	u := &model.User{ID: id, Name: name, UserType: userType, ZoneID: &zoneID, MehfilDirectoryID: mehfilID}
	m.users[id] = u
	return u
}

func (m *mockStore) addDutyType(id, zoneID uint, name string) *model.DutyType {
	t := &model.DutyType{ID: id, ZoneID: zoneID, Name: name, IsEditable: true}
	m.dutyTypes[id] = t
	return t
}

func assignmentFixture(id, rosterID, dutyTypeID uint, day string, mehfilID uint, coordinator bool) *model.DutyRosterAssignment {
	return &model.DutyRosterAssignment{
		ID:                id,
		DutyRosterID:      rosterID,
		DutyTypeID:        dutyTypeID,
		Day:               day,
		MehfilDirectoryID: mehfilID,
		IsCoordinator:     coordinator,
	}
}

func (m *mockStore) addRoster(id, userID, zoneID, mehfilID uint) *model.DutyRoster {
	r := &model.DutyRoster{ID: id, UserID: userID, ZoneID: zoneID, MehfilDirectoryID: mehfilID}
	m.rosters[id] = r
	return r
}

func (m *mockStore) assignmentsOf(rosterID uint) []model.DutyRosterAssignment {
	var out []model.DutyRosterAssignment
	for _, a := range m.assignments {
		if a.DutyRosterID == rosterID {
			cp := *a
			if t, ok := m.dutyTypes[a.DutyTypeID]; ok {
				tc := *t
				cp.DutyType = &tc
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := model.DayIndex(out[i].Day), model.DayIndex(out[j].Day)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// withDetails 模拟 Preload(User, Mehfil, Assignments.DutyType)
func (m *mockStore) withDetails(r *model.DutyRoster) model.DutyRoster {
	cp := *r
	if u, ok := m.users[r.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	if mf, ok := m.mehfils[r.MehfilDirectoryID]; ok {
		mc := *mf
		cp.Mehfil = &mc
	}
	cp.Assignments = m.assignmentsOf(r.ID)
	return cp
}

// inScope 模拟 repository.applyScope
func inScope(scope repository.StatsScope, zoneID *uint, mehfilID *uint) bool {
	if scope.MehfilID != nil {
		return mehfilID != nil && *mehfilID == *scope.MehfilID
	}
	if zoneID == nil {
		return false
	}
	for _, id := range scope.ZoneIDs {
		if id == *zoneID {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ── Mock ZoneRepository ──

type mockZoneRepo struct{ s *mockStore }

func (m *mockZoneRepo) GetByID(_ context.Context, id uint) (*model.Zone, error) {
	if z, ok := m.s.zones[id]; ok {
		return z, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockZoneRepo) filter(keep func(*model.Zone) bool) []model.Zone {
	result := []model.Zone{}
	for _, z := range m.s.zones {
		if keep(z) {
			result = append(result, *z)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TitleEn < result[j].TitleEn })
	return result
}

func (m *mockZoneRepo) ListAll(_ context.Context) ([]model.Zone, error) {
	return m.filter(func(*model.Zone) bool { return true }), nil
}

func (m *mockZoneRepo) ListByRegion(_ context.Context, regionID uint) ([]model.Zone, error) {
	return m.filter(func(z *model.Zone) bool { return z.RegionID != nil && *z.RegionID == regionID }), nil
}

func (m *mockZoneRepo) ListByIDs(_ context.Context, ids []uint) ([]model.Zone, error) {
	set := make(map[uint]bool)
	for _, id := range ids {
		set[id] = true
	}
	return m.filter(func(z *model.Zone) bool { return set[z.ID] }), nil
}

// ── Mock MehfilRepository ──

type mockMehfilRepo struct{ s *mockStore }

func (m *mockMehfilRepo) GetByID(_ context.Context, id uint) (*model.MehfilDirectory, error) {
	if mf, ok := m.s.mehfils[id]; ok {
		return mf, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMehfilRepo) ListPublishedByZone(_ context.Context, zoneID uint) ([]model.MehfilDirectory, error) {
	result := []model.MehfilDirectory{}
	for _, mf := range m.s.mehfils {
		if mf.ZoneID == zoneID && mf.IsPublished {
			result = append(result, *mf)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MehfilNumber < result[j].MehfilNumber })
	return result, nil
}

func (m *mockMehfilRepo) CountPublished(_ context.Context, scope repository.StatsScope) (int64, error) {
	var n int64
	for _, mf := range m.s.mehfils {
		id := mf.ID
		if mf.IsPublished && inScope(scope, &mf.ZoneID, &id) {
			n++
		}
	}
	return n, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListAvailable(_ context.Context, f repository.AvailableUserFilter) ([]model.User, error) {
	result := []model.User{}
	for _, u := range m.s.users {
		if u.ZoneID == nil || *u.ZoneID != f.ZoneID || u.UserType != f.UserType {
			continue
		}
		if f.MehfilID != nil {
			if u.MehfilDirectoryID == nil || *u.MehfilDirectoryID != *f.MehfilID {
				continue
			}
			onRoster := false
			for _, r := range m.s.rosters {
				if r.UserID == u.ID && r.MehfilDirectoryID == *f.MehfilID {
					onRoster = true
				}
			}
			if onRoster {
				continue
			}
		}
		if f.ExcludeAdmins && u.HasAdminFlag() {
			continue
		}
		if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) && !containsFold(u.PhoneNumber, f.Search) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) CountByType(_ context.Context, scope repository.StatsScope, userType string) (int64, error) {
	var n int64
	for _, u := range m.s.users {
		if u.UserType == userType && inScope(scope, u.ZoneID, u.MehfilDirectoryID) {
			n++
		}
	}
	return n, nil
}

// ── Mock DutyTypeRepository ──

type mockDutyTypeRepo struct{ s *mockStore }

func (m *mockDutyTypeRepo) Create(_ context.Context, t *model.DutyType) error {
	if t.ID == 0 {
		t.ID = m.s.id()
	}
	m.s.dutyTypes[t.ID] = t
	return nil
}

func (m *mockDutyTypeRepo) GetByID(_ context.Context, id uint) (*model.DutyType, error) {
	if t, ok := m.s.dutyTypes[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// LockByID 返回副本：事务回滚时 store 不受未提交的修改影响
func (m *mockDutyTypeRepo) LockByID(_ context.Context, id uint, _ string) (*model.DutyType, error) {
	if t, ok := m.s.dutyTypes[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDutyTypeRepo) ListAll(_ context.Context) ([]model.DutyType, error) {
	result := []model.DutyType{}
	for _, t := range m.s.dutyTypes {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDutyTypeRepo) List(ctx context.Context, search string, offset, limit int) ([]model.DutyType, int64, error) {
	all, _ := m.ListAll(ctx)
	matched := []model.DutyType{}
	for _, t := range all {
		if search == "" || containsFold(t.Name, search) || containsFold(t.Description, search) {
			matched = append(matched, t)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.DutyType{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockDutyTypeRepo) Update(_ context.Context, t *model.DutyType) error {
	m.s.dutyTypes[t.ID] = t
	return nil
}

func (m *mockDutyTypeRepo) Delete(_ context.Context, id uint) error {
	delete(m.s.dutyTypes, id)
	return nil
}

// ── Mock DutyRosterRepository ──

type mockDutyRosterRepo struct{ s *mockStore }

func (m *mockDutyRosterRepo) Create(_ context.Context, r *model.DutyRoster) error {
	for _, existing := range m.s.rosters {
		if existing.UserID == r.UserID && existing.MehfilDirectoryID == r.MehfilDirectoryID {
			return gorm.ErrDuplicatedKey
		}
	}
	if r.ID == 0 {
		r.ID = m.s.id()
	}
	cp := *r
	cp.User, cp.Mehfil, cp.Assignments = nil, nil, nil
	m.s.rosters[r.ID] = &cp
	return nil
}

func (m *mockDutyRosterRepo) GetByID(_ context.Context, id uint) (*model.DutyRoster, error) {
	r, ok := m.s.rosters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d := m.s.withDetails(r)
	return &d, nil
}

func (m *mockDutyRosterRepo) GetByUserAndMehfil(_ context.Context, userID, mehfilID uint) (*model.DutyRoster, error) {
	for _, r := range m.s.rosters {
		if r.UserID == userID && r.MehfilDirectoryID == mehfilID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDutyRosterRepo) sorted(keep func(*model.DutyRoster) bool) []model.DutyRoster {
	result := []model.DutyRoster{}
	for _, r := range m.s.rosters {
		if keep(r) {
			result = append(result, m.s.withDetails(r))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ni, nj := "", ""
		if result[i].User != nil {
			ni = result[i].User.Name
		}
		if result[j].User != nil {
			nj = result[j].User.Name
		}
		if ni != nj {
			return ni < nj
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *mockDutyRosterRepo) ListByUser(_ context.Context, userID uint) ([]model.DutyRoster, error) {
	return m.sorted(func(r *model.DutyRoster) bool { return r.UserID == userID }), nil
}

func (m *mockDutyRosterRepo) List(_ context.Context, f repository.RosterFilter) ([]model.DutyRoster, error) {
	return m.sorted(func(r *model.DutyRoster) bool {
		if r.ZoneID != f.ZoneID {
			return false
		}
		if f.MehfilID != nil && r.MehfilDirectoryID != *f.MehfilID {
			return false
		}
		u, ok := m.s.users[r.UserID]
		if !ok {
			return false
		}
		if f.UserType != "" && u.UserType != f.UserType {
			return false
		}
		if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) && !containsFold(u.PhoneNumber, f.Search) {
			return false
		}
		if f.RequireAssignments && len(m.s.assignmentsOf(r.ID)) == 0 {
			return false
		}
		return true
	}), nil
}

func (m *mockDutyRosterRepo) ListIDsByMehfil(_ context.Context, mehfilID uint) ([]uint, error) {
	var ids []uint
	for _, r := range m.s.rosters {
		if r.MehfilDirectoryID == mehfilID {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (m *mockDutyRosterRepo) LockByMehfil(_ context.Context, _ uint) error {
	m.s.lockCalls++
	return nil
}

func (m *mockDutyRosterRepo) Update(_ context.Context, r *model.DutyRoster) error {
	stored, ok := m.s.rosters[r.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.UserID = r.UserID
	stored.ZoneID = r.ZoneID
	stored.MehfilDirectoryID = r.MehfilDirectoryID
	stored.UpdatedBy = r.UpdatedBy
	return nil
}

// Delete 不模拟外键级联，级联由 service 显式完成
func (m *mockDutyRosterRepo) Delete(_ context.Context, id uint) error {
	delete(m.s.rosters, id)
	return nil
}

func (m *mockDutyRosterRepo) Count(_ context.Context, scope repository.StatsScope) (int64, error) {
	var n int64
	for _, r := range m.s.rosters {
		zone, mehfil := r.ZoneID, r.MehfilDirectoryID
		if inScope(scope, &zone, &mehfil) {
			n++
		}
	}
	return n, nil
}

// ── Mock DutyRosterAssignmentRepository ──

type mockAssignmentRepo struct{ s *mockStore }

// Create 模拟 slot 唯一约束与 coordinator 部分唯一索引
func (m *mockAssignmentRepo) Create(_ context.Context, a *model.DutyRosterAssignment) error {
	for _, e := range m.s.assignments {
		if e.DutyRosterID == a.DutyRosterID && e.DutyTypeID == a.DutyTypeID && e.Day == a.Day {
			return gorm.ErrDuplicatedKey
		}
		if a.IsCoordinator && e.IsCoordinator && e.MehfilDirectoryID == a.MehfilDirectoryID &&
			e.DutyTypeID == a.DutyTypeID && e.Day == a.Day {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == 0 {
		a.ID = m.s.id()
	}
	cp := *a
	cp.DutyType = nil
	m.s.assignments[a.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id uint) (*model.DutyRosterAssignment, error) {
	if a, ok := m.s.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Exists(_ context.Context, rosterID, dutyTypeID uint, day string) (bool, error) {
	for _, a := range m.s.assignments {
		if a.DutyRosterID == rosterID && a.DutyTypeID == dutyTypeID && a.Day == day {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ExistsForRosters(_ context.Context, rosterIDs []uint, dutyTypeID uint, day string) (bool, error) {
	set := make(map[uint]bool)
	for _, id := range rosterIDs {
		set[id] = true
	}
	for _, a := range m.s.assignments {
		if set[a.DutyRosterID] && a.DutyTypeID == dutyTypeID && a.Day == day {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ListByRoster(_ context.Context, rosterID uint) ([]model.DutyRosterAssignment, error) {
	return m.s.assignmentsOf(rosterID), nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id uint) error {
	delete(m.s.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) DeleteByRoster(_ context.Context, rosterID uint) error {
	for id, a := range m.s.assignments {
		if a.DutyRosterID == rosterID {
			delete(m.s.assignments, id)
		}
	}
	return nil
}

func (m *mockAssignmentRepo) UpdateMehfilByRoster(_ context.Context, rosterID, mehfilID uint) error {
	for _, a := range m.s.assignments {
		if a.DutyRosterID == rosterID {
			a.MehfilDirectoryID = mehfilID
		}
	}
	return nil
}

// UpdateCoordinatorByDutyType 置位前模拟 coordinator 部分唯一索引，冲突时不做任何修改
func (m *mockAssignmentRepo) UpdateCoordinatorByDutyType(_ context.Context, dutyTypeID uint, isCoordinator bool) error {
	if isCoordinator {
		seen := make(map[string]bool)
		for _, a := range m.s.assignments {
			if a.DutyTypeID != dutyTypeID {
				continue
			}
			key := fmt.Sprintf("%d/%s", a.MehfilDirectoryID, a.Day)
			if seen[key] {
				return gorm.ErrDuplicatedKey
			}
			seen[key] = true
		}
	}
	for _, a := range m.s.assignments {
		if a.DutyTypeID == dutyTypeID {
			a.IsCoordinator = isCoordinator
		}
	}
	return nil
}

func (m *mockAssignmentRepo) scoped(scope repository.StatsScope) []*model.DutyRosterAssignment {
	var out []*model.DutyRosterAssignment
	for _, a := range m.s.assignments {
		r, ok := m.s.rosters[a.DutyRosterID]
		if !ok {
			continue
		}
		zone, mehfil := r.ZoneID, r.MehfilDirectoryID
		if inScope(scope, &zone, &mehfil) {
			out = append(out, a)
		}
	}
	return out
}

func (m *mockAssignmentRepo) Count(_ context.Context, scope repository.StatsScope) (int64, error) {
	return int64(len(m.scoped(scope))), nil
}

func (m *mockAssignmentRepo) CountByDay(_ context.Context, scope repository.StatsScope) ([]repository.DayCount, error) {
	counts := make(map[string]int64)
	for _, a := range m.scoped(scope) {
		counts[a.Day]++
	}
	var rows []repository.DayCount
	for day, n := range counts {
		rows = append(rows, repository.DayCount{Day: day, Count: n})
	}
	return rows, nil
}

func (m *mockAssignmentRepo) CoordinatorCoverage(_ context.Context, scope repository.StatsScope) ([]repository.DayCount, error) {
	mehfils := make(map[string]map[uint]bool)
	for _, a := range m.scoped(scope) {
		if !a.IsCoordinator {
			continue
		}
		if mehfils[a.Day] == nil {
			mehfils[a.Day] = make(map[uint]bool)
		}
		mehfils[a.Day][a.MehfilDirectoryID] = true
	}
	var rows []repository.DayCount
	for day, set := range mehfils {
		rows = append(rows, repository.DayCount{Day: day, Count: int64(len(set))})
	}
	return rows, nil
}

// ── Mock MehfilReportRepository ──

type mockReportRepo struct{ s *mockStore }

func (m *mockReportRepo) CountSubmitted(_ context.Context, scope repository.StatsScope, month, year int) (int64, error) {
	var n int64
	for _, r := range m.s.reports {
		zone, mehfil := r.ZoneID, r.MehfilDirectoryID
		if r.ReportMonth == month && r.ReportYear == year && inScope(scope, &zone, &mehfil) {
			n++
		}
	}
	return n, nil
}
