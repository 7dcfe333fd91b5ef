package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
)

// 内存版 Repository，串行化所有访问，测试用

func newTestRepo() (*repository.Repository, *memStore) {
	store := &memStore{
		employees: map[uint]*model.Employee{},
		vehicles:  map[uint]*model.Vehicle{},
		sites:     map[uint]*model.WorkSite{},
		logs:      map[uint]*model.CrewLog{},
		members:   map[uint]*model.CrewLogMember{},
		segments:  map[uint]*model.WorkSegment{},
		users:     map[string]*model.User{},
		settings:  map[string]*model.TenantSettings{},
		clients:   map[string]*model.Client{},
		cSites:    map[string]*model.ClientSite{},
		deals:     map[string]*model.Deal{},
		quotes:    map[string]*model.Quote{},
		lines:     map[string]*model.QuoteLine{},
		overheads: map[string]*model.QuoteOverhead{},
		totals:    map[string]*model.QuoteTotals{},
	}
	repo := &repository.Repository{
		User:           &memUserRepo{s: store},
		TenantSettings: &memSettingsRepo{s: store},
		Client:         &memClientRepo{s: store},
		ClientSite:     &memClientSiteRepo{s: store},
		Deal:           &memDealRepo{s: store},
		Quote:          &memQuoteRepo{s: store},
		Employee:       &memEmployeeRepo{s: store},
		Vehicle:        &memVehicleRepo{s: store},
		WorkSite:       &memWorkSiteRepo{s: store},
		CrewLog:        &memCrewLogRepo{s: store},
		Segment:        &memSegmentRepo{s: store},
	}
	return repo, store
}

type memStore struct {
	mu     sync.Mutex
	nextID uint

	employees map[uint]*model.Employee
	vehicles  map[uint]*model.Vehicle
	sites     map[uint]*model.WorkSite
	logs      map[uint]*model.CrewLog
	members   map[uint]*model.CrewLogMember
	segments  map[uint]*model.WorkSegment

	users     map[string]*model.User
	settings  map[string]*model.TenantSettings
	clients   map[string]*model.Client
	cSites    map[string]*model.ClientSite
	deals     map[string]*model.Deal
	quotes    map[string]*model.Quote
	lines     map[string]*model.QuoteLine
	overheads map[string]*model.QuoteOverhead
	totals    map[string]*model.QuoteTotals
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// ── 人员 ──

type memEmployeeRepo struct{ s *memStore }

func (r *memEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if emp.ID == 0 {
		emp.ID = r.s.id()
	}
	r.s.employees[emp.ID] = emp
	return nil
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if emp, ok := r.s.employees[id]; ok {
		return emp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEmployeeRepo) ListActive(_ context.Context) ([]model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Employee
	for _, emp := range r.s.employees {
		if emp.IsActive {
			out = append(out, *emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memEmployeeRepo) Deactivate(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if emp, ok := r.s.employees[id]; ok {
		emp.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── 车辆 ──

type memVehicleRepo struct{ s *memStore }

func (r *memVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == 0 {
		v.ID = r.s.id()
	}
	r.s.vehicles[v.ID] = v
	return nil
}

func (r *memVehicleRepo) GetByID(_ context.Context, id uint) (*model.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.vehicles[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memVehicleRepo) GetByPlate(_ context.Context, plate string) (*model.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.vehicles {
		if v.Plate == plate {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memVehicleRepo) ListActive(_ context.Context) ([]model.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Vehicle
	for _, v := range r.s.vehicles {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (r *memVehicleRepo) Deactivate(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.vehicles[id]; ok {
		v.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── 工地 ──

type memWorkSiteRepo struct{ s *memStore }

func (r *memWorkSiteRepo) Create(_ context.Context, site *model.WorkSite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if site.ID == 0 {
		site.ID = r.s.id()
	}
	r.s.sites[site.ID] = site
	return nil
}

func (r *memWorkSiteRepo) GetByID(_ context.Context, id uint) (*model.WorkSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if site, ok := r.s.sites[id]; ok {
		return site, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memWorkSiteRepo) List(_ context.Context) ([]model.WorkSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.WorkSite
	for _, site := range r.s.sites {
		out = append(out, *site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── 班组日志 ──

type memCrewLogRepo struct{ s *memStore }

func (r *memCrewLogRepo) Create(_ context.Context, log *model.CrewLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if log.ID == 0 {
		log.ID = r.s.id()
	}
	r.s.logs[log.ID] = log
	return nil
}

func (r *memCrewLogRepo) GetByID(_ context.Context, id uint) (*model.CrewLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if log, ok := r.s.logs[id]; ok {
		return log, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCrewLogRepo) GetForUpdate(ctx context.Context, id uint) (*model.CrewLog, error) {
	return r.GetByID(ctx, id)
}

func (r *memCrewLogRepo) FindByDateVehicle(_ context.Context, workDate time.Time, vehicleID uint) (*model.CrewLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, log := range r.s.logs {
		if log.WorkDate.Equal(workDate) && log.VehicleID == vehicleID {
			return log, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCrewLogRepo) List(_ context.Context, workDate *time.Time, vehicleID *uint) ([]model.CrewLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CrewLog
	for _, log := range r.s.logs {
		if workDate != nil && !log.WorkDate.Equal(*workDate) {
			continue
		}
		if vehicleID != nil && log.VehicleID != *vehicleID {
			continue
		}
		out = append(out, *log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memCrewLogRepo) ListRangeDetailed(_ context.Context, dateFrom, dateTo time.Time, vehicleID *uint) ([]model.CrewLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CrewLog
	for _, log := range r.s.logs {
		if log.WorkDate.Before(dateFrom) || log.WorkDate.After(dateTo) {
			continue
		}
		if vehicleID != nil && log.VehicleID != *vehicleID {
			continue
		}
		cp := *log
		cp.Vehicle = r.s.vehicles[log.VehicleID]
		cp.Members = nil
		for _, m := range r.s.members {
			if m.CrewLogID == log.ID {
				mc := *m
				mc.Employee = r.s.employees[m.EmployeeID]
				cp.Members = append(cp.Members, mc)
			}
		}
		sort.Slice(cp.Members, func(i, j int) bool { return cp.Members[i].ID < cp.Members[j].ID })
		cp.Segments = nil
		for _, seg := range r.s.segments {
			if seg.CrewLogID == log.ID {
				sc := *seg
				sc.Site = r.s.sites[seg.SiteID]
				cp.Segments = append(cp.Segments, sc)
			}
		}
		sort.Slice(cp.Segments, func(i, j int) bool { return cp.Segments[i].ID < cp.Segments[j].ID })
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCrewLogRepo) AddMember(_ context.Context, member *model.CrewLogMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if member.ID == 0 {
		member.ID = r.s.id()
	}
	r.s.members[member.ID] = member
	return nil
}

func (r *memCrewLogRepo) FindMember(_ context.Context, crewLogID, employeeID uint) (*model.CrewLogMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.CrewLogID == crewLogID && m.EmployeeID == employeeID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCrewLogRepo) ListMembers(_ context.Context, crewLogID uint) ([]model.CrewLogMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CrewLogMember
	for _, m := range r.s.members {
		if m.CrewLogID == crewLogID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── 工段 ──

type memSegmentRepo struct{ s *memStore }

func (r *memSegmentRepo) Create(_ context.Context, seg *model.WorkSegment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if seg.ID == 0 {
		seg.ID = r.s.id()
	}
	r.s.segments[seg.ID] = seg
	return nil
}

func (r *memSegmentRepo) GetByLogAndID(_ context.Context, crewLogID, segmentID uint) (*model.WorkSegment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if seg, ok := r.s.segments[segmentID]; ok && seg.CrewLogID == crewLogID {
		return seg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSegmentRepo) FindOpen(_ context.Context, crewLogID uint) (*model.WorkSegment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, seg := range r.s.segments {
		if seg.CrewLogID == crewLogID && seg.EndAt == nil {
			return seg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSegmentRepo) FindOpenLatest(_ context.Context, crewLogID uint) (*model.WorkSegment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *model.WorkSegment
	for _, seg := range r.s.segments {
		if seg.CrewLogID == crewLogID && seg.EndAt == nil {
			if best == nil || seg.ID > best.ID {
				best = seg
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *memSegmentRepo) LastClosed(_ context.Context, crewLogID uint) (*model.WorkSegment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *model.WorkSegment
	for _, seg := range r.s.segments {
		if seg.CrewLogID == crewLogID && seg.EndAt != nil {
			if best == nil || seg.EndAt.After(*best.EndAt) {
				best = seg
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *memSegmentRepo) ListByLog(_ context.Context, crewLogID uint) ([]model.WorkSegment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.WorkSegment
	for _, seg := range r.s.segments {
		if seg.CrewLogID == crewLogID {
			out = append(out, *seg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSegmentRepo) Update(_ context.Context, seg *model.WorkSegment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.segments[seg.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.segments[seg.ID] = seg
	return nil
}

// ── 用户 ──

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, tenantID, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ListByTenant(_ context.Context, tenantID string) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, u := range r.s.users {
		if u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

// ── 租户配置 ──

type memSettingsRepo struct{ s *memStore }

func (r *memSettingsRepo) Get(_ context.Context, tenantID string) (*model.TenantSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.settings[tenantID]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSettingsRepo) Save(_ context.Context, settings *model.TenantSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[settings.TenantID] = settings
	return nil
}

// ── 客户 ──

type memClientRepo struct{ s *memStore }

func (r *memClientRepo) Create(_ context.Context, client *model.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[client.ID] = client
	return nil
}

func (r *memClientRepo) GetByID(_ context.Context, tenantID, id string) (*model.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memClientRepo) List(_ context.Context, tenantID string) ([]model.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Client
	for _, c := range r.s.clients {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memClientRepo) Update(_ context.Context, client *model.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[client.ID] = client
	return nil
}

type memClientSiteRepo struct{ s *memStore }

func (r *memClientSiteRepo) Create(_ context.Context, site *model.ClientSite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cSites[site.ID] = site
	return nil
}

func (r *memClientSiteRepo) GetByID(_ context.Context, tenantID, id string) (*model.ClientSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if site, ok := r.s.cSites[id]; ok && site.TenantID == tenantID {
		return site, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memClientSiteRepo) List(_ context.Context, tenantID string, clientID *string) ([]model.ClientSite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ClientSite
	for _, site := range r.s.cSites {
		if site.TenantID != tenantID {
			continue
		}
		if clientID != nil && site.ClientID != *clientID {
			continue
		}
		out = append(out, *site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── 商机 ──

type memDealRepo struct{ s *memStore }

func (r *memDealRepo) Create(_ context.Context, deal *model.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deals[deal.ID] = deal
	return nil
}

func (r *memDealRepo) GetByID(_ context.Context, tenantID, id string) (*model.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.deals[id]; ok && d.TenantID == tenantID {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDealRepo) List(_ context.Context, tenantID string, status *string) ([]model.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Deal
	for _, d := range r.s.deals {
		if d.TenantID != tenantID {
			continue
		}
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memDealRepo) Update(_ context.Context, deal *model.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deals[deal.ID] = deal
	return nil
}

// ── 报价 ──

type memQuoteRepo struct{ s *memStore }

func (r *memQuoteRepo) Create(_ context.Context, quote *model.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quotes[quote.ID] = quote
	return nil
}

func (r *memQuoteRepo) GetByID(_ context.Context, tenantID, id string) (*model.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if q, ok := r.s.quotes[id]; ok && q.TenantID == tenantID {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memQuoteRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, q := range r.s.quotes {
		if q.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memQuoteRepo) ReplaceParams(_ context.Context, tenantID, quoteID string, params []model.QuoteParam) error {
	return nil
}

func (r *memQuoteRepo) CreateLine(_ context.Context, line *model.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[line.ID] = line
	return nil
}

func (r *memQuoteRepo) GetLine(_ context.Context, tenantID, quoteID, lineID string) (*model.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.lines[lineID]; ok && l.TenantID == tenantID && l.QuoteID == quoteID {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memQuoteRepo) ListLines(_ context.Context, tenantID, quoteID string) ([]model.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.QuoteLine
	for _, l := range r.s.lines {
		if l.TenantID == tenantID && l.QuoteID == quoteID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *memQuoteRepo) UpdateLine(_ context.Context, line *model.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[line.ID] = line
	return nil
}

func (r *memQuoteRepo) DeleteLine(_ context.Context, tenantID, quoteID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.lines, lineID)
	return nil
}

func (r *memQuoteRepo) ReplaceOverheads(_ context.Context, tenantID, quoteID string, overheads []model.QuoteOverhead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.overheads {
		if o.TenantID == tenantID && o.QuoteID == quoteID {
			delete(r.s.overheads, id)
		}
	}
	for i := range overheads {
		o := overheads[i]
		r.s.overheads[o.ID] = &o
	}
	return nil
}

func (r *memQuoteRepo) ListOverheads(_ context.Context, tenantID, quoteID string) ([]model.QuoteOverhead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.QuoteOverhead
	for _, o := range r.s.overheads {
		if o.TenantID == tenantID && o.QuoteID == quoteID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memQuoteRepo) GetTotals(_ context.Context, tenantID, quoteID string) (*model.QuoteTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.totals[quoteID]; ok && t.TenantID == tenantID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memQuoteRepo) SaveTotals(_ context.Context, totals *model.QuoteTotals) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.totals[totals.QuoteID] = totals
	return nil
}
