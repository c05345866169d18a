package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	pkgerrors "ampa-activity/pkg/errors"
)

// ── 内存数据存储 ──
//
// 所有 mock repository 共享同一个 memStore，便于模拟关联查询、级联删除与聚合统计。
// 读取时返回副本，行为与数据库一致：修改返回值不影响已存储数据。

type memStore struct {
	seq       int
	users     map[string]*model.User
	languages map[string]*model.Language
	members   map[string]*model.Member
	products  map[string]*model.Product
	types     map[string]*model.ActivityType
	rosters   map[string]*model.RosterLine
	calendars map[string]*model.SchoolCalendar
	holidays  map[string]*model.SchoolHoliday
	events    map[string]*model.ActivityEvent
	partners  map[string]*model.ActivityEventPartner
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*model.User),
		languages: make(map[string]*model.Language),
		members:   make(map[string]*model.Member),
		products:  make(map[string]*model.Product),
		types:     make(map[string]*model.ActivityType),
		rosters:   make(map[string]*model.RosterLine),
		calendars: make(map[string]*model.SchoolCalendar),
		holidays:  make(map[string]*model.SchoolHoliday),
		events:    make(map[string]*model.ActivityEvent),
		partners:  make(map[string]*model.ActivityEventPartner),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// tick 单调递增的创建时间，用于稳定排序
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Unix(int64(s.seq), 0)
}

// newMockRepository 组装基于 memStore 的 Repository 聚合（db 为 nil，事务直接执行）
func newMockRepository() (*repository.Repository, *memStore) {
	st := newMemStore()
	repo := &repository.Repository{
		User:           &mockUserRepo{st},
		Language:       &mockLanguageRepo{st},
		Member:         &mockMemberRepo{st},
		Product:        &mockProductRepo{st},
		ActivityType:   &mockActivityTypeRepo{st},
		Roster:         &mockRosterRepo{st},
		SchoolCalendar: &mockSchoolCalendarRepo{st},
		SchoolHoliday:  &mockSchoolHolidayRepo{st},
		ActivityEvent:  &mockActivityEventRepo{st},
		EventPartner:   &mockEventPartnerRepo{st},
	}
	return repo, st
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *memStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.users)), nil
}

// ── Mock LanguageRepository ──

type mockLanguageRepo struct{ s *memStore }

func (m *mockLanguageRepo) Create(_ context.Context, lang *model.Language) error {
	if lang.LanguageID == "" {
		lang.LanguageID = m.s.nextID("lang")
	}
	cp := *lang
	m.s.languages[lang.LanguageID] = &cp
	return nil
}

func (m *mockLanguageRepo) GetByID(_ context.Context, id string) (*model.Language, error) {
	if l, ok := m.s.languages[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLanguageRepo) GetByCode(_ context.Context, code string) (*model.Language, error) {
	for _, l := range m.s.languages {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLanguageRepo) List(_ context.Context) ([]model.Language, error) {
	var result []model.Language
	for _, l := range m.s.languages {
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockLanguageRepo) Update(_ context.Context, lang *model.Language) error {
	cp := *lang
	m.s.languages[lang.LanguageID] = &cp
	return nil
}

func (m *mockLanguageRepo) Delete(_ context.Context, id string) error {
	delete(m.s.languages, id)
	return nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct{ s *memStore }

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = m.s.nextID("member")
	}
	cp := *member
	m.s.members[member.MemberID] = &cp
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if mem, ok := m.s.members[id]; ok {
		cp := *mem
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByIDs(_ context.Context, ids []string) ([]model.Member, error) {
	var result []model.Member
	for _, id := range ids {
		if mem, ok := m.s.members[id]; ok {
			result = append(result, *mem)
		}
	}
	return result, nil
}

func (m *mockMemberRepo) List(_ context.Context, filter repository.ListFilter) ([]model.Member, int64, error) {
	var result []model.Member
	for _, mem := range m.s.members {
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(mem.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *mem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	cp := *member
	m.s.members[member.MemberID] = &cp
	return nil
}

// Delete 与外键 ON DELETE CASCADE 一致：名单与明细行一并删除
func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	delete(m.s.members, id)
	m.s.cascade(func(memberID, _ string) bool { return memberID == id })
	return nil
}

// ── Mock ProductRepository ──

type mockProductRepo struct{ s *memStore }

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	if product.ProductID == "" {
		product.ProductID = m.s.nextID("product")
	}
	cp := *product
	m.s.products[product.ProductID] = &cp
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*model.Product, error) {
	if p, ok := m.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ListFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range m.s.products {
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	cp := *product
	m.s.products[product.ProductID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	delete(m.s.products, id)
	m.s.cascade(func(_, productID string) bool { return productID == id })
	return nil
}

// ── Mock ActivityTypeRepository ──

type mockActivityTypeRepo struct{ s *memStore }

func (m *mockActivityTypeRepo) Create(_ context.Context, at *model.ActivityType) error {
	if at.ActivityTypeID == "" {
		at.ActivityTypeID = m.s.nextID("type")
	}
	cp := *at
	m.s.types[at.ActivityTypeID] = &cp
	return nil
}

func (m *mockActivityTypeRepo) GetByID(_ context.Context, id string) (*model.ActivityType, error) {
	if at, ok := m.s.types[id]; ok {
		cp := *at
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityTypeRepo) List(_ context.Context) ([]model.ActivityType, error) {
	var result []model.ActivityType
	for _, at := range m.s.types {
		result = append(result, *at)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockActivityTypeRepo) Update(_ context.Context, at *model.ActivityType) error {
	cp := *at
	m.s.types[at.ActivityTypeID] = &cp
	return nil
}

// Delete activity_events.activity_type_id 无级联动作，被引用时拒绝删除
func (m *mockActivityTypeRepo) Delete(_ context.Context, id string) error {
	for _, e := range m.s.events {
		if e.ActivityTypeID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.s.types, id)
	for rid, r := range m.s.rosters {
		if r.ActivityTypeID == id {
			delete(m.s.rosters, rid)
		}
	}
	return nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct{ s *memStore }

func (m *mockRosterRepo) Create(_ context.Context, line *model.RosterLine) error {
	if line.RosterLineID == "" {
		line.RosterLineID = m.s.nextID("roster")
	}
	cp := *line
	cp.Member, cp.Product, cp.ActivityType = nil, nil, nil
	m.s.rosters[line.RosterLineID] = &cp
	return nil
}

func (m *mockRosterRepo) withRelations(l model.RosterLine) model.RosterLine {
	if mem, ok := m.s.members[l.MemberID]; ok {
		cp := *mem
		l.Member = &cp
	}
	if p, ok := m.s.products[l.ProductID]; ok {
		cp := *p
		l.Product = &cp
	}
	return l
}

func (m *mockRosterRepo) GetByID(_ context.Context, id string) (*model.RosterLine, error) {
	if l, ok := m.s.rosters[id]; ok {
		cp := m.withRelations(*l)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRosterRepo) ListByType(_ context.Context, activityTypeID string) ([]model.RosterLine, error) {
	var result []model.RosterLine
	for _, l := range m.s.rosters {
		if activityTypeID != "" && l.ActivityTypeID != activityTypeID {
			continue
		}
		result = append(result, m.withRelations(*l))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Member.Name < result[j].Member.Name })
	return result, nil
}

func (m *mockRosterRepo) Update(_ context.Context, line *model.RosterLine) error {
	if l, ok := m.s.rosters[line.RosterLineID]; ok {
		l.ProductID = line.ProductID
		l.UpdatedBy = line.UpdatedBy
	}
	return nil
}

func (m *mockRosterRepo) Delete(_ context.Context, id string) error {
	delete(m.s.rosters, id)
	return nil
}

// ── Mock SchoolCalendarRepository ──

type mockSchoolCalendarRepo struct{ s *memStore }

func (m *mockSchoolCalendarRepo) Create(_ context.Context, cal *model.SchoolCalendar) error {
	if cal.SchoolCalendarID == "" {
		cal.SchoolCalendarID = m.s.nextID("cal")
	}
	cp := *cal
	cp.Holidays = nil
	m.s.calendars[cal.SchoolCalendarID] = &cp
	return nil
}

func (m *mockSchoolCalendarRepo) GetByID(_ context.Context, id string) (*model.SchoolCalendar, error) {
	c, ok := m.s.calendars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Holidays = nil
	for _, h := range m.s.holidays {
		if h.SchoolCalendarID == id {
			cp.Holidays = append(cp.Holidays, *h)
		}
	}
	sort.Slice(cp.Holidays, func(i, j int) bool { return cp.Holidays[i].DateStart.Before(cp.Holidays[j].DateStart) })
	return &cp, nil
}

func (m *mockSchoolCalendarRepo) FindContaining(_ context.Context, date time.Time) (*model.SchoolCalendar, error) {
	var found *model.SchoolCalendar
	for _, c := range m.s.calendars {
		if date.Before(c.DateStart) || date.After(c.DateEnd) {
			continue
		}
		if found == nil || c.DateStart.Before(found.DateStart) {
			found = c
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockSchoolCalendarRepo) GetDefault(_ context.Context) (*model.SchoolCalendar, error) {
	var found *model.SchoolCalendar
	for _, c := range m.s.calendars {
		if found == nil || c.DateStart.After(found.DateStart) {
			found = c
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockSchoolCalendarRepo) List(_ context.Context) ([]model.SchoolCalendar, error) {
	var result []model.SchoolCalendar
	for _, c := range m.s.calendars {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateStart.After(result[j].DateStart) })
	return result, nil
}

func (m *mockSchoolCalendarRepo) Update(_ context.Context, cal *model.SchoolCalendar) error {
	cp := *cal
	cp.Holidays = nil
	m.s.calendars[cal.SchoolCalendarID] = &cp
	return nil
}

func (m *mockSchoolCalendarRepo) Delete(_ context.Context, id string) error {
	delete(m.s.calendars, id)
	for hid, h := range m.s.holidays {
		if h.SchoolCalendarID == id {
			delete(m.s.holidays, hid)
		}
	}
	for _, e := range m.s.events {
		if e.SchoolCalendarID != nil && *e.SchoolCalendarID == id {
			e.SchoolCalendarID = nil
		}
	}
	return nil
}

// ── Mock SchoolHolidayRepository ──

type mockSchoolHolidayRepo struct{ s *memStore }

func (m *mockSchoolHolidayRepo) Create(_ context.Context, h *model.SchoolHoliday) error {
	if h.SchoolHolidayID == "" {
		h.SchoolHolidayID = m.s.nextID("holiday")
	}
	cp := *h
	m.s.holidays[h.SchoolHolidayID] = &cp
	return nil
}

func (m *mockSchoolHolidayRepo) BatchCreate(ctx context.Context, hs []model.SchoolHoliday) error {
	for i := range hs {
		if err := m.Create(ctx, &hs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSchoolHolidayRepo) GetByID(_ context.Context, id string) (*model.SchoolHoliday, error) {
	if h, ok := m.s.holidays[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolHolidayRepo) ListByCalendar(_ context.Context, calendarID string) ([]model.SchoolHoliday, error) {
	var result []model.SchoolHoliday
	for _, h := range m.s.holidays {
		if h.SchoolCalendarID == calendarID {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateStart.Before(result[j].DateStart) })
	return result, nil
}

func (m *mockSchoolHolidayRepo) Update(_ context.Context, h *model.SchoolHoliday) error {
	cp := *h
	m.s.holidays[h.SchoolHolidayID] = &cp
	return nil
}

func (m *mockSchoolHolidayRepo) Delete(_ context.Context, id string) error {
	delete(m.s.holidays, id)
	return nil
}

// ── Mock ActivityEventRepository ──

type mockActivityEventRepo struct{ s *memStore }

func (m *mockActivityEventRepo) Create(_ context.Context, event *model.ActivityEvent) error {
	if event.ActivityEventID == "" {
		event.ActivityEventID = m.s.nextID("event")
	}
	event.CreatedAt = m.s.tick()
	cp := *event
	cp.ActivityType, cp.SchoolCalendar, cp.Partners = nil, nil, nil
	m.s.events[event.ActivityEventID] = &cp
	return nil
}

func (m *mockActivityEventRepo) GetByID(_ context.Context, id string) (*model.ActivityEvent, error) {
	e, ok := m.s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	if at, ok := m.s.types[e.ActivityTypeID]; ok {
		atCp := *at
		cp.ActivityType = &atCp
	}
	if e.SchoolCalendarID != nil {
		if c, ok := m.s.calendars[*e.SchoolCalendarID]; ok {
			cCp := *c
			cp.SchoolCalendar = &cCp
		}
	}
	partners := &mockEventPartnerRepo{m.s}
	cp.Partners, _ = partners.ListByEvent(context.Background(), id)
	return &cp, nil
}

func (m *mockActivityEventRepo) List(_ context.Context, filter repository.EventFilter) ([]model.ActivityEvent, int64, error) {
	var result []model.ActivityEvent
	for _, e := range m.s.events {
		if filter.SchoolCalendarID != "" && (e.SchoolCalendarID == nil || *e.SchoolCalendarID != filter.SchoolCalendarID) {
			continue
		}
		if filter.ActivityTypeID != "" && e.ActivityTypeID != filter.ActivityTypeID {
			continue
		}
		if filter.State != "" && e.State != filter.State {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateStart.After(result[j].DateStart) })
	return result, int64(len(result)), nil
}

func (m *mockActivityEventRepo) Update(_ context.Context, event *model.ActivityEvent) error {
	stored, ok := m.s.events[event.ActivityEventID]
	if !ok || stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *event
	cp.ActivityType, cp.SchoolCalendar, cp.Partners = nil, nil, nil
	cp.TotalPartners = stored.TotalPartners
	cp.Version = event.Version + 1
	m.s.events[event.ActivityEventID] = &cp
	event.Version = cp.Version
	return nil
}

func (m *mockActivityEventRepo) Delete(_ context.Context, id string) error {
	delete(m.s.events, id)
	for pid, p := range m.s.partners {
		if p.ActivityEventID == id {
			delete(m.s.partners, pid)
		}
	}
	return nil
}

func (m *mockActivityEventRepo) RecountPartners(_ context.Context, eventID string) (int, error) {
	n := 0
	for _, p := range m.s.partners {
		if p.ActivityEventID == eventID {
			n++
		}
	}
	if e, ok := m.s.events[eventID]; ok {
		e.TotalPartners = n
	}
	return n, nil
}

func (m *mockActivityEventRepo) ListMonths(_ context.Context, from, to time.Time) ([]repository.MonthRow, error) {
	seen := make(map[repository.MonthRow]bool)
	var rows []repository.MonthRow
	for _, e := range m.s.events {
		if e.DateStart.Before(from) || e.DateStart.After(to) {
			continue
		}
		row := repository.MonthRow{Year: e.DateStart.Year(), Month: int(e.DateStart.Month())}
		if !seen[row] {
			seen[row] = true
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows, nil
}

// ── Mock EventPartnerRepository ──

type mockEventPartnerRepo struct{ s *memStore }

func (m *mockEventPartnerRepo) withRelations(p model.ActivityEventPartner) model.ActivityEventPartner {
	if mem, ok := m.s.members[p.MemberID]; ok {
		cp := *mem
		p.Member = &cp
	}
	if prod, ok := m.s.products[p.ProductID]; ok {
		cp := *prod
		p.Product = &cp
	}
	return p
}

func (m *mockEventPartnerRepo) BatchCreate(_ context.Context, lines []model.ActivityEventPartner) error {
	for i := range lines {
		if lines[i].EventPartnerID == "" {
			lines[i].EventPartnerID = m.s.nextID("line")
		}
		lines[i].CreatedAt = m.s.tick()
		cp := lines[i]
		cp.Member, cp.Product = nil, nil
		m.s.partners[cp.EventPartnerID] = &cp
	}
	return nil
}

func (m *mockEventPartnerRepo) GetByID(_ context.Context, id string) (*model.ActivityEventPartner, error) {
	if p, ok := m.s.partners[id]; ok {
		cp := m.withRelations(*p)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventPartnerRepo) ListByEvent(_ context.Context, eventID string) ([]model.ActivityEventPartner, error) {
	var result []model.ActivityEventPartner
	for _, p := range m.s.partners {
		if p.ActivityEventID == eventID {
			result = append(result, m.withRelations(*p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockEventPartnerRepo) Update(_ context.Context, line *model.ActivityEventPartner) error {
	if p, ok := m.s.partners[line.EventPartnerID]; ok {
		p.ProductID = line.ProductID
		p.Comment = line.Comment
		p.UpdatedBy = line.UpdatedBy
	}
	return nil
}

func (m *mockEventPartnerRepo) Delete(_ context.Context, id string) error {
	delete(m.s.partners, id)
	return nil
}

func (m *mockEventPartnerRepo) EventIDsByMember(_ context.Context, memberID string) ([]string, error) {
	return m.eventIDs(func(p *model.ActivityEventPartner) bool { return p.MemberID == memberID }), nil
}

func (m *mockEventPartnerRepo) EventIDsByProduct(_ context.Context, productID string) ([]string, error) {
	return m.eventIDs(func(p *model.ActivityEventPartner) bool { return p.ProductID == productID }), nil
}

func (m *mockEventPartnerRepo) eventIDs(match func(*model.ActivityEventPartner) bool) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range m.s.partners {
		if match(p) && !seen[p.ActivityEventID] {
			seen[p.ActivityEventID] = true
			ids = append(ids, p.ActivityEventID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *mockEventPartnerRepo) SyncEventSnapshot(_ context.Context, eventID string, dateStart time.Time, calendarID *string) error {
	for _, p := range m.s.partners {
		if p.ActivityEventID == eventID {
			p.DateStart = dateStart
			p.SchoolCalendarID = calendarID
		}
	}
	return nil
}

func (m *mockEventPartnerRepo) AggregateAttendance(_ context.Context, from, to time.Time) ([]repository.AttendanceRow, error) {
	type key struct{ partner, product string }
	counts := make(map[key]int)
	for _, p := range m.s.partners {
		e, ok := m.s.events[p.ActivityEventID]
		if !ok || e.DateStart.Before(from) || e.DateStart.After(to) {
			continue
		}
		k := key{m.s.members[p.MemberID].Name, m.s.products[p.ProductID].Name}
		counts[k]++
	}

	rows := make([]repository.AttendanceRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, repository.AttendanceRow{Partner: k.partner, Product: k.product, Total: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Partner != rows[j].Partner {
			return rows[i].Partner < rows[j].Partner
		}
		return rows[i].Product < rows[j].Product
	})
	return rows, nil
}

// ── 测试数据构造 ──

func mustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *memStore) addLanguage(code, pattern string) {
	id := s.nextID("lang")
	s.languages[id] = &model.Language{LanguageID: id, Code: code, Name: code, DateFormat: pattern}
}

func (s *memStore) addType(name string) string {
	id := s.nextID("type")
	s.types[id] = &model.ActivityType{ActivityTypeID: id, Name: name}
	return id
}

func (s *memStore) addMember(name, partnerType string) string {
	id := s.nextID("member")
	s.members[id] = &model.Member{MemberID: id, Name: name, PartnerType: partnerType}
	return id
}

func (s *memStore) addProduct(name string) string {
	id := s.nextID("product")
	s.products[id] = &model.Product{ProductID: id, Name: name}
	return id
}

func (s *memStore) addRoster(typeID, memberID, productID string) {
	id := s.nextID("roster")
	s.rosters[id] = &model.RosterLine{RosterLineID: id, ActivityTypeID: typeID, MemberID: memberID, ProductID: productID}
}

func (s *memStore) addCalendar(name, start, end string) string {
	id := s.nextID("cal")
	s.calendars[id] = &model.SchoolCalendar{SchoolCalendarID: id, Name: name, DateStart: mustDate(start), DateEnd: mustDate(end)}
	return id
}

func (s *memStore) addHoliday(calendarID, name, start, end string) {
	id := s.nextID("holiday")
	s.holidays[id] = &model.SchoolHoliday{
		SchoolHolidayID: id, SchoolCalendarID: calendarID, Name: name, DateStart: mustDate(start), DateEnd: mustDate(end),
	}
}

// cascade 删除命中的名单与明细行（match 参数为 member_id, product_id）
func (s *memStore) cascade(match func(memberID, productID string) bool) {
	for id, r := range s.rosters {
		if match(r.MemberID, r.ProductID) {
			delete(s.rosters, id)
		}
	}
	for id, p := range s.partners {
		if match(p.MemberID, p.ProductID) {
			delete(s.partners, id)
		}
	}
}

func (s *memStore) partnersOf(eventID string) []model.ActivityEventPartner {
	var result []model.ActivityEventPartner
	for _, p := range s.partners {
		if p.ActivityEventID == eventID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}
