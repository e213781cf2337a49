package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/validation"
	pkgerrors "natesa/backend/pkg/errors"
	"natesa/backend/pkg/patch"
)

func setupTestEventService() (EventService, *memDB) {
	m := newMemDB()
	return NewEventService(m.repository(), validation.New(), zap.NewNop()), m
}

func TestEventService_RoundTrip(t *testing.T) {
	svc, m := setupTestEventService()
	b := seedBranch(t, m, "Wits")
	officer := seedUser(t, m, "bec@wits.ac.za", model.RoleBEC, &b.ID)
	when := time.Date(2025, 6, 14, 10, 0, 0, 0, time.FixedZone("SAST", 2*3600))

	created, err := svc.Create(context.Background(), identityOf(officer), &dto.CreateEventRequest{
		Title: "AGM", Date: when, BranchID: b.ID, CreatedBy: officer.ID, EventType: "meeting",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	got, err := svc.GetByID(context.Background(), policy.Anonymous(), created.ID)
	if err != nil {
		t.Fatalf("events are public: %v", err)
	}
	if got.Title != "AGM" || got.Date != "2025-06-14T08:00:00Z" || got.EventType != "meeting" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestEventService_Create_AllFieldsRequired(t *testing.T) {
	svc, m := setupTestEventService()
	b := seedBranch(t, m, "Wits")

	_, err := svc.Create(context.Background(), adminID, &dto.CreateEventRequest{BranchID: b.ID})
	kindOf(t, err, pkgerrors.KindValidation)
	if got := len(pkgerrors.ViolationsOf(err)); got != 4 {
		t.Errorf("expected title, date, created_by and event_type violations, got %d", got)
	}
}

func TestEventService_Create_OtherBranchDenied(t *testing.T) {
	svc, m := setupTestEventService()
	a := seedBranch(t, m, "Wits")
	b := seedBranch(t, m, "UCT")
	officer := seedUser(t, m, "bec@wits.ac.za", model.RoleBEC, &a.ID)

	_, err := svc.Create(context.Background(), identityOf(officer), &dto.CreateEventRequest{
		Title: "Braai", Date: time.Now(), BranchID: b.ID, CreatedBy: officer.ID, EventType: "social",
	})
	if !errors.Is(err, policy.ErrOutsideBranch) {
		t.Errorf("expected ErrOutsideBranch, got %v", err)
	}
}

func TestEventService_Create_UnknownCreator(t *testing.T) {
	svc, m := setupTestEventService()
	b := seedBranch(t, m, "Wits")

	_, err := svc.Create(context.Background(), adminID, &dto.CreateEventRequest{
		Title: "AGM", Date: time.Now(), BranchID: b.ID, CreatedBy: 999, EventType: "meeting",
	})
	kindOf(t, err, pkgerrors.KindValidation)
	if v := pkgerrors.ViolationsOf(err); len(v) != 1 || v[0].Field != "created_by" {
		t.Errorf("expected a created_by violation, got %v", v)
	}
}

func TestEventService_UpdateAndDelete(t *testing.T) {
	svc, m := setupTestEventService()
	b := seedBranch(t, m, "Wits")
	u := seedUser(t, m, "nec@x.io", model.RoleNEC, nil)
	ev, err := svc.Create(context.Background(), necID, &dto.CreateEventRequest{
		Title: "AGM", Date: time.Now(), BranchID: b.ID, CreatedBy: u.ID, EventType: "meeting",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	resp, err := svc.Update(context.Background(), necID, ev.ID, &dto.UpdateEventRequest{Title: patch.Value("AGM 2025")})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.Title != "AGM 2025" || resp.EventType != "meeting" {
		t.Errorf("unexpected event after update: %+v", resp)
	}

	_, err = svc.Update(context.Background(), necID, ev.ID, &dto.UpdateEventRequest{EventType: patch.Null[string]()})
	kindOf(t, err, pkgerrors.KindValidation)

	if err := svc.Delete(context.Background(), necID, ev.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), necID, ev.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_List_ByBranch(t *testing.T) {
	svc, m := setupTestEventService()
	a := seedBranch(t, m, "Wits")
	b := seedBranch(t, m, "UCT")
	u := seedUser(t, m, "nec@x.io", model.RoleNEC, nil)
	for _, branchID := range []uint{a.ID, a.ID, b.ID} {
		if _, err := svc.Create(context.Background(), adminID, &dto.CreateEventRequest{
			Title: "Meetup", Date: time.Now(), BranchID: branchID, CreatedBy: u.ID, EventType: "social",
		}); err != nil {
			t.Fatalf("Create should succeed: %v", err)
		}
	}

	_, total, err := svc.List(context.Background(), policy.Anonymous(), &dto.EventListRequest{BranchID: &a.ID})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 Wits events, got %d", total)
	}
}
