package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	pkgerrors "natesa/backend/pkg/errors"
)

// memDB in-memory stand-in for the five tables. One mutex guards every
// table so unique and foreign key checks are atomic with the write.
type memDB struct {
	mu      sync.Mutex
	nextID  uint
	users   map[uint]*model.User
	branch  map[uint]*model.Branch
	alumni  map[uint]*model.Alumni
	events  map[uint]*model.Event
	news    map[uint]*model.News
	clock   func() time.Time
	failing error // returned by every call when set
}

func newMemDB() *memDB {
	return &memDB{
		users:  map[uint]*model.User{},
		branch: map[uint]*model.Branch{},
		alumni: map[uint]*model.Alumni{},
		events: map[uint]*model.Event{},
		news:   map[uint]*model.News{},
		clock:  func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// repository assembles a Repository without a connection; Transaction
// then runs its callback directly.
func (m *memDB) repository() *repository.Repository {
	return &repository.Repository{
		User:   &mockUserRepo{m},
		Branch: &mockBranchRepo{m},
		Alumni: &mockAlumniRepo{m},
		Event:  &mockEventRepo{m},
		News:   &mockNewsRepo{m},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) stamp(v *model.VersionedModel) {
	now := m.clock()
	v.CreatedAt, v.UpdatedAt, v.Version = now, now, 1
}

func (m *memDB) bump(v *model.VersionedModel, version int) error {
	if v.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	v.Version++
	v.UpdatedAt = m.clock()
	return nil
}

func fkErr(name string) error { return &repository.ErrForeignKey{Constraint: name} }

func (m *memDB) branchExists(id uint) bool {
	_, ok := m.branch[id]
	return ok
}

func (m *memDB) userExists(id uint) bool {
	_, ok := m.users[id]
	return ok
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

// ── users ──

type mockUserRepo struct{ m *memDB }

func (r *mockUserRepo) Create(_ context.Context, u *model.User) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	for _, other := range m.users {
		if other.Email == u.Email {
			return &repository.ErrDuplicateKey{Constraint: repository.ConstraintUserEmail}
		}
	}
	if u.BranchID != nil && !m.branchExists(*u.BranchID) {
		return fkErr("fk_users_branch")
	}
	u.ID = m.id()
	m.stamp(&u.VersionedModel)
	cp := *u
	cp.Branch = nil
	m.users[u.ID] = &cp
	return nil
}

func (r *mockUserRepo) load(id uint) (*model.User, error) {
	m := r.m
	if m.failing != nil {
		return nil, m.failing
	}
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if cp.BranchID != nil {
		if b, ok := m.branch[*cp.BranchID]; ok {
			bc := *b
			cp.Branch = &bc
		}
	}
	return &cp, nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.load(id)
}

func (r *mockUserRepo) GetForUpdate(ctx context.Context, id uint) (*model.User, error) {
	return r.GetByID(ctx, id)
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failing != nil {
		return nil, r.m.failing
	}
	for id, u := range r.m.users {
		if u.Email == email {
			return r.load(id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) List(_ context.Context, f repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failing != nil {
		return nil, 0, r.m.failing
	}
	var out []model.User
	for id, u := range r.m.users {
		switch {
		case f.BranchID != nil && (u.BranchID == nil || *u.BranchID != *f.BranchID):
			continue
		case f.UserID != nil && id != *f.UserID:
			continue
		case f.Role != "" && u.Role != f.Role:
			continue
		case f.Status != "" && u.Status != f.Status:
			continue
		case f.Keyword != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(f.Keyword)):
			continue
		}
		cp, _ := r.load(id)
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), int64(len(out)), nil
}

func (r *mockUserRepo) Update(_ context.Context, id uint, version int, columns map[string]interface{}) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(columns) == 0 {
		return nil
	}
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *u
	for col, v := range columns {
		switch col {
		case "name":
			next.Name = v.(string)
		case "email":
			next.Email = v.(string)
			for oid, other := range m.users {
				if oid != id && other.Email == next.Email {
					return &repository.ErrDuplicateKey{Constraint: repository.ConstraintUserEmail}
				}
			}
		case "password_hash":
			next.PasswordHash = v.(string)
		case "role":
			next.Role = v.(string)
		case "branch_id":
			next.BranchID = v.(*uint)
			if next.BranchID != nil && !m.branchExists(*next.BranchID) {
				return fkErr("fk_users_branch")
			}
		case "is_bec_member":
			next.IsBECMember = v.(bool)
		case "nec_position":
			next.NECPosition = v.(*string)
		case "bec_position":
			next.BECPosition = v.(*string)
		case "status":
			next.Status = v.(string)
		}
	}
	if err := m.bump(&next.VersionedModel, version); err != nil {
		return err
	}
	m.users[id] = &next
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id uint) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, a := range m.alumni {
		if a.UserID == id {
			return fkErr("fk_alumni_user")
		}
	}
	for _, e := range m.events {
		if e.CreatedBy == id {
			return fkErr("fk_events_creator")
		}
	}
	for _, n := range m.news {
		if n.AuthorID == id {
			return fkErr("fk_news_author")
		}
	}
	delete(m.users, id)
	return nil
}

func (r *mockUserRepo) CountByBranch(_ context.Context, branchID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, u := range r.m.users {
		if u.InBranch(branchID) {
			n++
		}
	}
	return n, nil
}

// ── branches ──

type mockBranchRepo struct{ m *memDB }

func (r *mockBranchRepo) Create(_ context.Context, b *model.Branch) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.branch {
		if other.Name == b.Name {
			return &repository.ErrDuplicateKey{Constraint: repository.ConstraintBranchName}
		}
	}
	b.ID = m.id()
	m.stamp(&b.VersionedModel)
	cp := *b
	m.branch[b.ID] = &cp
	return nil
}

func (r *mockBranchRepo) GetByID(_ context.Context, id uint) (*model.Branch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failing != nil {
		return nil, r.m.failing
	}
	b, ok := r.m.branch[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *mockBranchRepo) GetForUpdate(ctx context.Context, id uint) (*model.Branch, error) {
	return r.GetByID(ctx, id)
}

func (r *mockBranchRepo) GetByName(_ context.Context, name string) (*model.Branch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, b := range r.m.branch {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockBranchRepo) List(_ context.Context, f repository.BranchFilter) ([]model.Branch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Branch
	for _, b := range r.m.branch {
		if f.Province != "" && b.Province != f.Province {
			continue
		}
		if f.Keyword != "" && !strings.Contains(strings.ToLower(b.Name+" "+b.University), strings.ToLower(f.Keyword)) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *mockBranchRepo) Update(_ context.Context, id uint, version int, columns map[string]interface{}) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(columns) == 0 {
		return nil
	}
	b, ok := m.branch[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *b
	for col, v := range columns {
		switch col {
		case "name":
			next.Name = v.(string)
			for oid, other := range m.branch {
				if oid != id && other.Name == next.Name {
					return &repository.ErrDuplicateKey{Constraint: repository.ConstraintBranchName}
				}
			}
		case "university":
			next.University = v.(string)
		case "province":
			next.Province = v.(string)
		case "member_count":
			next.MemberCount = v.(int)
		case "alumni_count":
			next.AlumniCount = v.(int)
		}
	}
	if err := m.bump(&next.VersionedModel, version); err != nil {
		return err
	}
	m.branch[id] = &next
	return nil
}

func (r *mockBranchRepo) Delete(_ context.Context, id uint) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.branch[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, u := range m.users {
		if u.InBranch(id) {
			return fkErr("fk_users_branch")
		}
	}
	for _, a := range m.alumni {
		if a.BranchID == id {
			return fkErr("fk_alumni_branch")
		}
	}
	for _, e := range m.events {
		if e.BranchID == id {
			return fkErr("fk_events_branch")
		}
	}
	for _, n := range m.news {
		if n.BranchID == id {
			return fkErr("fk_news_branch")
		}
	}
	delete(m.branch, id)
	return nil
}

// ── alumni ──

type mockAlumniRepo struct{ m *memDB }

func (r *mockAlumniRepo) Create(_ context.Context, a *model.Alumni) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.alumni {
		if other.UserID == a.UserID {
			return &repository.ErrDuplicateKey{Constraint: repository.ConstraintAlumniUserID}
		}
	}
	if !m.userExists(a.UserID) {
		return fkErr("fk_alumni_user")
	}
	if !m.branchExists(a.BranchID) {
		return fkErr("fk_alumni_branch")
	}
	a.ID = m.id()
	m.stamp(&a.VersionedModel)
	cp := *a
	m.alumni[a.ID] = &cp
	return nil
}

func (r *mockAlumniRepo) GetByID(_ context.Context, id uint) (*model.Alumni, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.alumni[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *mockAlumniRepo) GetForUpdate(ctx context.Context, id uint) (*model.Alumni, error) {
	return r.GetByID(ctx, id)
}

func (r *mockAlumniRepo) GetByUserID(_ context.Context, userID uint) (*model.Alumni, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.alumni {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAlumniRepo) List(_ context.Context, f repository.AlumniFilter, offset, limit int) ([]model.Alumni, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Alumni
	for _, a := range r.m.alumni {
		switch {
		case f.BranchID != nil && a.BranchID != *f.BranchID:
			continue
		case f.UserID != nil && a.UserID != *f.UserID:
			continue
		case f.CurrentStatus != "" && a.CurrentStatus != f.CurrentStatus:
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), int64(len(out)), nil
}

func (r *mockAlumniRepo) Update(_ context.Context, id uint, version int, columns map[string]interface{}) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(columns) == 0 {
		return nil
	}
	a, ok := m.alumni[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *a
	for col, v := range columns {
		switch col {
		case "user_id":
			next.UserID = v.(uint)
			for oid, other := range m.alumni {
				if oid != id && other.UserID == next.UserID {
					return &repository.ErrDuplicateKey{Constraint: repository.ConstraintAlumniUserID}
				}
			}
		case "branch_id":
			next.BranchID = v.(uint)
		case "graduation_date":
			next.GraduationDate = v.(time.Time)
		case "degree":
			next.Degree = v.(string)
		case "current_status":
			next.CurrentStatus = v.(string)
		}
	}
	if err := m.bump(&next.VersionedModel, version); err != nil {
		return err
	}
	m.alumni[id] = &next
	return nil
}

func (r *mockAlumniRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.alumni[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.alumni, id)
	return nil
}

func (r *mockAlumniRepo) CountByBranch(_ context.Context, branchID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, a := range r.m.alumni {
		if a.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

// ── events ──

type mockEventRepo struct{ m *memDB }

func (r *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.branchExists(e.BranchID) {
		return fkErr("fk_events_branch")
	}
	if !m.userExists(e.CreatedBy) {
		return fkErr("fk_events_creator")
	}
	e.ID = m.id()
	m.stamp(&e.VersionedModel)
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (r *mockEventRepo) GetByID(_ context.Context, id uint) (*model.Event, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *mockEventRepo) GetForUpdate(ctx context.Context, id uint) (*model.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *mockEventRepo) List(_ context.Context, f repository.EventFilter, offset, limit int) ([]model.Event, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Event
	for _, e := range r.m.events {
		switch {
		case f.BranchID != nil && e.BranchID != *f.BranchID:
			continue
		case f.EventType != "" && e.EventType != f.EventType:
			continue
		case f.From != nil && e.Date.Before(*f.From):
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return window(out, offset, limit), int64(len(out)), nil
}

func (r *mockEventRepo) Update(_ context.Context, id uint, version int, columns map[string]interface{}) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(columns) == 0 {
		return nil
	}
	e, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *e
	for col, v := range columns {
		switch col {
		case "title":
			next.Title = v.(string)
		case "date":
			next.Date = v.(time.Time)
		case "branch_id":
			next.BranchID = v.(uint)
		case "created_by":
			next.CreatedBy = v.(uint)
		case "event_type":
			next.EventType = v.(string)
		}
	}
	if err := m.bump(&next.VersionedModel, version); err != nil {
		return err
	}
	m.events[id] = &next
	return nil
}

func (r *mockEventRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.events, id)
	return nil
}

// ── news ──

type mockNewsRepo struct{ m *memDB }

func (r *mockNewsRepo) Create(_ context.Context, n *model.News) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.branchExists(n.BranchID) {
		return fkErr("fk_news_branch")
	}
	if !m.userExists(n.AuthorID) {
		return fkErr("fk_news_author")
	}
	n.ID = m.id()
	m.stamp(&n.VersionedModel)
	cp := *n
	m.news[n.ID] = &cp
	return nil
}

func (r *mockNewsRepo) GetByID(_ context.Context, id uint) (*model.News, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n, ok := r.m.news[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *mockNewsRepo) GetForUpdate(ctx context.Context, id uint) (*model.News, error) {
	return r.GetByID(ctx, id)
}

func (r *mockNewsRepo) List(_ context.Context, f repository.NewsFilter, offset, limit int) ([]model.News, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.News
	for _, n := range r.m.news {
		switch {
		case f.BranchID != nil && n.BranchID != *f.BranchID:
			continue
		case f.AuthorID != nil && n.AuthorID != *f.AuthorID:
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishDate.After(out[j].PublishDate) })
	return window(out, offset, limit), int64(len(out)), nil
}

func (r *mockNewsRepo) Update(_ context.Context, id uint, version int, columns map[string]interface{}) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(columns) == 0 {
		return nil
	}
	n, ok := m.news[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *n
	for col, v := range columns {
		switch col {
		case "title":
			next.Title = v.(string)
		case "content":
			next.Content = v.(string)
		case "branch_id":
			next.BranchID = v.(uint)
		case "author_id":
			next.AuthorID = v.(uint)
		case "publish_date":
			next.PublishDate = v.(time.Time)
		}
	}
	if err := m.bump(&next.VersionedModel, version); err != nil {
		return err
	}
	m.news[id] = &next
	return nil
}

func (r *mockNewsRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.news[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.news, id)
	return nil
}

// ── fixtures ──

const testPassword = "Secret#123"

var (
	adminID = policy.Identity{UserID: 9001, Role: model.RoleAdmin}
	necID   = policy.Identity{UserID: 9002, Role: model.RoleNEC}
)

func becID(userID, branchID uint) policy.Identity {
	return policy.Identity{UserID: userID, Role: model.RoleBEC, BranchID: &branchID}
}

func identityOf(u *model.User) policy.Identity {
	return policy.Identity{UserID: u.ID, Role: u.Role, BranchID: u.BranchID}
}

func seedBranch(t *testing.T, m *memDB, name string) *model.Branch {
	t.Helper()
	b := &model.Branch{Name: name, University: name + " University", Province: "Gauteng"}
	if err := (&mockBranchRepo{m}).Create(context.Background(), b); err != nil {
		t.Fatalf("seed branch %s: %v", name, err)
	}
	return b
}

func seedUser(t *testing.T, m *memDB, email, role string, branchID *uint) *model.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	u := &model.User{
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		BranchID:     branchID,
		Status:       model.StatusActive,
	}
	if err := (&mockUserRepo{m}).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func kindOf(t *testing.T, err error, want pkgerrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := pkgerrors.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s: %v", want, got, err)
	}
}
