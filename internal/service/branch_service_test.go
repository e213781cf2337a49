package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/validation"
	pkgerrors "natesa/backend/pkg/errors"
	"natesa/backend/pkg/patch"
)

func setupTestBranchService() (BranchService, *memDB) {
	m := newMemDB()
	return NewBranchService(m.repository(), validation.New(), zap.NewNop()), m
}

func TestBranchService_Create(t *testing.T) {
	svc, _ := setupTestBranchService()

	resp, err := svc.Create(context.Background(), adminID, &dto.CreateBranchRequest{
		Name: " Rhodes ", University: "Rhodes University", Province: "Eastern Cape",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if resp.Name != "Rhodes" || resp.MemberCount != 0 || resp.AlumniCount != 0 {
		t.Errorf("unexpected branch: %+v", resp)
	}

	_, err = svc.Create(context.Background(), adminID, &dto.CreateBranchRequest{
		Name: "Rhodes", University: "Elsewhere", Province: "Gauteng",
	})
	if !errors.Is(err, ErrBranchNameExists) {
		t.Errorf("expected ErrBranchNameExists, got %v", err)
	}
}

func TestBranchService_Create_OnlyAdmin(t *testing.T) {
	svc, _ := setupTestBranchService()

	_, err := svc.Create(context.Background(), necID, &dto.CreateBranchRequest{
		Name: "UFS", University: "University of the Free State", Province: "Free State",
	})
	kindOf(t, err, pkgerrors.KindAuthorization)
}

func TestBranchService_Create_BadProvince(t *testing.T) {
	svc, _ := setupTestBranchService()

	_, err := svc.Create(context.Background(), adminID, &dto.CreateBranchRequest{
		Name: "Somewhere", University: "U", Province: "Atlantis",
	})
	kindOf(t, err, pkgerrors.KindValidation)
}

func TestBranchService_Update_RenameConflict(t *testing.T) {
	svc, m := setupTestBranchService()
	seedBranch(t, m, "Wits")
	b := seedBranch(t, m, "UCT")

	_, err := svc.Update(context.Background(), adminID, b.ID, &dto.UpdateBranchRequest{Name: patch.Value("Wits")})
	if !errors.Is(err, ErrBranchNameExists) {
		t.Errorf("expected ErrBranchNameExists, got %v", err)
	}

	resp, err := svc.Update(context.Background(), adminID, b.ID, &dto.UpdateBranchRequest{Province: patch.Value("Western Cape")})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.Name != "UCT" || resp.Province != "Western Cape" {
		t.Errorf("unexpected branch after update: %+v", resp)
	}
}

func TestBranchService_Delete_WithUsers(t *testing.T) {
	svc, m := setupTestBranchService()
	b := seedBranch(t, m, "Wits")
	seedUser(t, m, "member@wits.ac.za", model.RoleMember, &b.ID)

	err := svc.Delete(context.Background(), adminID, b.ID)
	if !errors.Is(err, ErrBranchHasUsers) {
		t.Errorf("expected ErrBranchHasUsers, got %v", err)
	}
	kindOf(t, err, pkgerrors.KindDependency)
}

func TestBranchService_Delete_WithContent(t *testing.T) {
	svc, m := setupTestBranchService()
	b := seedBranch(t, m, "Wits")
	m.news[100] = &model.News{ID: 100, BranchID: b.ID, Title: "Hello"}

	err := svc.Delete(context.Background(), adminID, b.ID)
	if !errors.Is(err, ErrRecordInUse) {
		t.Errorf("expected ErrRecordInUse, got %v", err)
	}
}

func TestBranchService_Delete(t *testing.T) {
	svc, m := setupTestBranchService()
	b := seedBranch(t, m, "Empty")

	if err := svc.Delete(context.Background(), adminID, b.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if err := svc.Delete(context.Background(), adminID, b.ID); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("second delete should be ErrBranchNotFound, got %v", err)
	}
}

func TestBranchService_Recount(t *testing.T) {
	svc, m := setupTestBranchService()
	b := seedBranch(t, m, "Wits")
	u1 := seedUser(t, m, "a@wits.ac.za", model.RoleMember, &b.ID)
	seedUser(t, m, "b@wits.ac.za", model.RoleMember, &b.ID)
	m.alumni[300] = &model.Alumni{ID: 300, UserID: u1.ID, BranchID: b.ID}

	resp, err := svc.Recount(context.Background(), adminID, b.ID)
	if err != nil {
		t.Fatalf("Recount should succeed: %v", err)
	}
	if resp.MemberCount != 2 || resp.AlumniCount != 1 {
		t.Errorf("expected 2 members and 1 alumni, got %d/%d", resp.MemberCount, resp.AlumniCount)
	}

	_, err = svc.Recount(context.Background(), becID(u1.ID, b.ID), b.ID)
	kindOf(t, err, pkgerrors.KindAuthorization)
}
