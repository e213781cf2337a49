package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/validation"
	pkgerrors "natesa/backend/pkg/errors"
)

func setupTestUserService() (UserService, *memDB) {
	m := newMemDB()
	return NewUserService(m.repository(), validation.New(), bcrypt.MinCost, zap.NewNop()), m
}

func registration(email string, branchID uint) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Name:     "Thandi Mokoena",
		Email:    email,
		Password: testPassword,
		Role:     model.RoleMember,
		BranchID: &branchID,
	}
}

// ── Create ──

func TestUserService_Create_Registration(t *testing.T) {
	svc, m := setupTestUserService()
	b := seedBranch(t, m, "Wits")

	resp, err := svc.Create(context.Background(), policy.Anonymous(), registration("  Thandi@Example.COM ", b.ID))
	if err != nil {
		t.Fatalf("registration should succeed: %v", err)
	}
	if resp.Email != "thandi@example.com" {
		t.Errorf("email should be normalised, got %q", resp.Email)
	}
	if resp.Status != model.StatusActive {
		t.Errorf("status should default to active, got %q", resp.Status)
	}
	if resp.Branch == nil || resp.Branch.Name != "Wits" {
		t.Errorf("response should embed the branch, got %+v", resp.Branch)
	}

	stored := m.users[resp.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)) != nil {
		t.Error("stored hash should match the submitted password")
	}
}

func TestUserService_Create_AnonymousCannotGrantOffice(t *testing.T) {
	svc, m := setupTestUserService()
	b := seedBranch(t, m, "UCT")

	req := registration("boss@example.com", b.ID)
	req.Role = model.RoleAdmin
	_, err := svc.Create(context.Background(), policy.Anonymous(), req)
	if !errors.Is(err, policy.ErrRoleGrant) {
		t.Errorf("expected ErrRoleGrant, got %v", err)
	}

	req = registration("pos@example.com", b.ID)
	req.NECPosition = strPtr("Treasurer")
	_, err = svc.Create(context.Background(), policy.Anonymous(), req)
	if !errors.Is(err, policy.ErrPrivilegedField) {
		t.Errorf("expected ErrPrivilegedField, got %v", err)
	}
	if len(m.users) != 0 {
		t.Errorf("nothing should be stored, got %d users", len(m.users))
	}
}

func TestUserService_Create_ReportsEveryViolation(t *testing.T) {
	svc, m := setupTestUserService()
	b := seedBranch(t, m, "UJ")

	req := registration("not-an-email", b.ID)
	req.Password = "short"
	_, err := svc.Create(context.Background(), policy.Anonymous(), req)
	kindOf(t, err, pkgerrors.KindValidation)

	fields := map[string]bool{}
	for _, v := range pkgerrors.ViolationsOf(err) {
		fields[v.Field] = true
	}
	if !fields["email"] || !fields["password"] {
		t.Errorf("expected email and password violations, got %v", pkgerrors.ViolationsOf(err))
	}
}

func TestUserService_Create_UnknownBranch(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.Create(context.Background(), policy.Anonymous(), registration("x@example.com", 404))
	kindOf(t, err, pkgerrors.KindValidation)
	if v := pkgerrors.ViolationsOf(err); len(v) != 1 || v[0].Field != "branch_id" {
		t.Errorf("expected a branch_id violation, got %v", v)
	}
}

func TestUserService_Create_DuplicateEmailIgnoresCase(t *testing.T) {
	svc, m := setupTestUserService()
	b := seedBranch(t, m, "NWU")

	if _, err := svc.Create(context.Background(), policy.Anonymous(), registration("dup@example.com", b.ID)); err != nil {
		t.Fatalf("first registration should succeed: %v", err)
	}
	_, err := svc.Create(context.Background(), policy.Anonymous(), registration("DUP@example.com", b.ID))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserService_Create_ConcurrentSameEmail(t *testing.T) {
	svc, m := setupTestUserService()
	b := seedBranch(t, m, "TUT")

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), policy.Anonymous(), registration("race@example.com", b.ID))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrEmailExists):
			t.Errorf("losers should see ErrEmailExists, got %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("exactly one create should win, got %d", ok)
	}
	if len(m.users) != 1 {
		t.Errorf("exactly one user should be stored, got %d", len(m.users))
	}
}

// ── List ──

func TestUserService_List_BECScopedToOwnBranch(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	b := seedBranch(t, m, "UCT")
	officer := seedUser(t, m, "officer@wits.ac.za", model.RoleBEC, &a.ID)
	seedUser(t, m, "one@wits.ac.za", model.RoleMember, &a.ID)
	seedUser(t, m, "two@uct.ac.za", model.RoleMember, &b.ID)

	// asking for another branch still yields the caller's own
	req := &dto.UserListRequest{BranchID: &b.ID}
	users, total, err := svc.List(context.Background(), identityOf(officer), req)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected the 2 Wits users, got total=%d len=%d", total, len(users))
	}
	for _, u := range users {
		if u.BranchID == nil || *u.BranchID != a.ID {
			t.Errorf("user %d is outside the caller's branch", u.ID)
		}
	}
}

func TestUserService_List_BECWithoutBranch(t *testing.T) {
	svc, _ := setupTestUserService()

	_, _, err := svc.List(context.Background(), policy.Identity{UserID: 5, Role: model.RoleBEC}, &dto.UserListRequest{})
	kindOf(t, err, pkgerrors.KindConfiguration)
}

func TestUserService_List_MemberDenied(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	member := seedUser(t, m, "m@wits.ac.za", model.RoleMember, &a.ID)

	_, _, err := svc.List(context.Background(), identityOf(member), &dto.UserListRequest{})
	kindOf(t, err, pkgerrors.KindAuthorization)
}

func TestUserService_List_Pagination(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		seedUser(t, m, e, model.RoleMember, &a.ID)
	}

	req := &dto.UserListRequest{PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2}}
	users, total, err := svc.List(context.Background(), adminID, req)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 3 || len(users) != 1 || users[0].Email != "c@x.io" {
		t.Errorf("unexpected page: total=%d users=%+v", total, users)
	}
}

// ── Update ──

func decodePatch(t *testing.T, body string) *dto.UpdateUserRequest {
	t.Helper()
	var req dto.UpdateUserRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return &req
}

func TestUserService_Update_SparseMerge(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "sparse@x.io", model.RoleMember, &a.ID)
	m.users[u.ID].BECPosition = strPtr("Secretary")

	resp, err := svc.Update(context.Background(), adminID, u.ID, decodePatch(t, `{"status":"inactive"}`))
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.Status != model.StatusInactive {
		t.Errorf("status should be inactive, got %q", resp.Status)
	}
	if resp.Email != u.Email || resp.Role != u.Role || *resp.BranchID != a.ID {
		t.Errorf("unsupplied fields must stay untouched: %+v", resp)
	}
	if resp.BECPosition == nil || *resp.BECPosition != "Secretary" {
		t.Errorf("bec_position should survive, got %v", resp.BECPosition)
	}
	if m.users[u.ID].Version != 2 {
		t.Errorf("version should be bumped to 2, got %d", m.users[u.ID].Version)
	}
}

func TestUserService_Update_NullClearsNullable(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "null@x.io", model.RoleMember, &a.ID)

	resp, err := svc.Update(context.Background(), adminID, u.ID, decodePatch(t, `{"branch_id":null}`))
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.BranchID != nil {
		t.Errorf("branch_id should be cleared, got %d", *resp.BranchID)
	}

	_, err = svc.Update(context.Background(), adminID, u.ID, decodePatch(t, `{"name":null}`))
	kindOf(t, err, pkgerrors.KindValidation)
}

func TestUserService_Update_SelfCannotTouchPrivilegedFields(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "self@x.io", model.RoleMember, &a.ID)
	me := identityOf(u)

	_, err := svc.Update(context.Background(), me, u.ID, decodePatch(t, `{"role":"admin"}`))
	if !errors.Is(err, policy.ErrPrivilegedField) {
		t.Errorf("expected ErrPrivilegedField, got %v", err)
	}

	resp, err := svc.Update(context.Background(), me, u.ID, decodePatch(t, `{"name":"New Name"}`))
	if err != nil {
		t.Fatalf("self rename should succeed: %v", err)
	}
	if resp.Name != "New Name" {
		t.Errorf("name should be updated, got %q", resp.Name)
	}
}

func TestUserService_Update_MemberCannotEditOthers(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "u@x.io", model.RoleMember, &a.ID)
	other := seedUser(t, m, "o@x.io", model.RoleMember, &a.ID)

	_, err := svc.Update(context.Background(), identityOf(u), other.ID, decodePatch(t, `{"name":"Hijacked"}`))
	kindOf(t, err, pkgerrors.KindAuthorization)
}

func TestUserService_Update_BECCannotPromoteToAdmin(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	officer := seedUser(t, m, "bec@x.io", model.RoleBEC, &a.ID)
	u := seedUser(t, m, "u@x.io", model.RoleMember, &a.ID)

	_, err := svc.Update(context.Background(), identityOf(officer), u.ID, decodePatch(t, `{"role":"admin"}`))
	if !errors.Is(err, policy.ErrRoleGrant) {
		t.Errorf("expected ErrRoleGrant, got %v", err)
	}

	resp, err := svc.Update(context.Background(), identityOf(officer), u.ID, decodePatch(t, `{"role":"bec"}`))
	if err != nil {
		t.Fatalf("promotion to bec should succeed: %v", err)
	}
	if resp.Role != model.RoleBEC {
		t.Errorf("role should be bec, got %q", resp.Role)
	}
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	seedUser(t, m, "taken@x.io", model.RoleMember, &a.ID)
	u := seedUser(t, m, "mine@x.io", model.RoleMember, &a.ID)

	_, err := svc.Update(context.Background(), adminID, u.ID, decodePatch(t, `{"email":"TAKEN@x.io"}`))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	// re-submitting one's own address is not a conflict
	if _, err := svc.Update(context.Background(), adminID, u.ID, decodePatch(t, `{"email":"mine@x.io"}`)); err != nil {
		t.Errorf("own email should be accepted: %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.Update(context.Background(), adminID, 77, decodePatch(t, `{"name":"Ghost"}`))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ── Delete ──

func TestUserService_Delete_Self(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	admin := seedUser(t, m, "root@x.io", model.RoleAdmin, &a.ID)
	member := seedUser(t, m, "leaving@x.io", model.RoleMember, &a.ID)

	if err := svc.Delete(context.Background(), identityOf(admin), admin.ID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("expected ErrUserSelfDelete, got %v", err)
	}
	if err := svc.Delete(context.Background(), identityOf(member), member.ID); err != nil {
		t.Errorf("members may close their own account: %v", err)
	}
	if _, ok := m.users[member.ID]; ok {
		t.Error("member should be gone")
	}
}

func TestUserService_Delete_Referenced(t *testing.T) {
	svc, m := setupTestUserService()
	a := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "grad@x.io", model.RoleAlumni, &a.ID)
	m.alumni[500] = &model.Alumni{ID: 500, UserID: u.ID, BranchID: a.ID, Degree: "BSc"}

	err := svc.Delete(context.Background(), adminID, u.ID)
	if !errors.Is(err, ErrRecordInUse) {
		t.Errorf("expected ErrRecordInUse, got %v", err)
	}
}

func TestUserService_StoreFailureIsWrapped(t *testing.T) {
	svc, m := setupTestUserService()
	m.failing = errors.New("connection reset")

	_, err := svc.GetByID(context.Background(), adminID, 1)
	kindOf(t, err, pkgerrors.KindStore)
	if strings.Contains(pkgerrors.MessageOf(err), "connection reset") {
		t.Error("driver detail must not leak into the public message")
	}
}
