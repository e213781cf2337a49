package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"natesa/backend/config"
	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
)

const (
	// calendarLookback how far into the past the public calendar reaches.
	calendarLookback = 90 * 24 * time.Hour
	// eventDuration length given to calendar entries; events only store a start.
	eventDuration = 2 * time.Hour
)

// ExportService file exports
type ExportService interface {
	// ExportUsers renders the caller-visible member roster as xlsx.
	ExportUsers(ctx context.Context, caller policy.Identity, req *dto.UserListRequest) (*bytes.Buffer, string, error)
	// EventCalendar renders recent and upcoming events as an iCalendar feed.
	EventCalendar(ctx context.Context, caller policy.Identity, branchID *uint) ([]byte, error)
}

type exportService struct {
	repo   *repository.Repository
	cfg    config.CalendarConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, cfg config.CalendarConfig, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, cfg: cfg, now: time.Now, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportUsers
// ═══════════════════════════════════════════════════════════

var rosterHeader = []string{"ID", "Name", "Email", "Role", "Branch", "Status", "BEC Member", "NEC Position", "BEC Position", "Joined"}

func (s *exportService) ExportUsers(ctx context.Context, caller policy.Identity, req *dto.UserListRequest) (*bytes.Buffer, string, error) {
	scope, err := policy.ListScope(caller, policy.EntityUser)
	if err != nil {
		return nil, "", err
	}
	filter := repository.UserFilter{
		BranchID: req.BranchID,
		UserID:   scope.OwnerID,
		Role:     req.Role,
		Status:   req.Status,
		Keyword:  strings.TrimSpace(req.Keyword),
	}
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	users, _, err := s.repo.User.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, "", storeFailure(s.logger, "list users for export", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", storeFailure(s.logger, "create roster sheet", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range rosterHeader {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, c, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(rosterHeader), 1)
	f.SetCellStyle(sheet, "A1", last, headerStyle)
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "E", "E", 24)
	f.SetColWidth(sheet, "H", "J", 20)

	for r, u := range users {
		values := []interface{}{
			u.ID, u.Name, u.Email, u.Role, branchName(&u), u.Status,
			yesNo(u.IsBECMember), deref(u.NECPosition), deref(u.BECPosition),
			dto.FormatTime(u.CreatedAt),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", storeFailure(s.logger, "write roster", err)
	}

	filename := fmt.Sprintf("members-%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

func branchName(u *model.User) string {
	if u.Branch != nil {
		return u.Branch.Name
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ═══════════════════════════════════════════════════════════
// EventCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) EventCalendar(ctx context.Context, caller policy.Identity, branchID *uint) ([]byte, error) {
	scope, err := policy.ListScope(caller, policy.EntityEvent)
	if err != nil {
		return nil, err
	}
	from := s.now().Add(-calendarLookback).UTC()
	filter := repository.EventFilter{BranchID: branchID, From: &from}
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	events, _, err := s.repo.Event.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, storeFailure(s.logger, "list events for calendar", err)
	}
	branches, err := s.repo.Branch.List(ctx, repository.BranchFilter{})
	if err != nil {
		return nil, storeFailure(s.logger, "list branches for calendar", err)
	}
	names := make(map[uint]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//NaTeSA//Events//EN")
	cal.SetName(s.cfg.Name)
	cal.SetXWRCalName(s.cfg.Name)
	if s.cfg.Timezone != "" {
		cal.SetXWRTimezone(s.cfg.Timezone)
	}

	stamp := s.now().UTC()
	for _, e := range events {
		vevent := cal.AddEvent(eventUID(e.ID))
		vevent.SetDtStampTime(stamp)
		vevent.SetModifiedAt(e.UpdatedAt.UTC())
		vevent.SetStartAt(e.Date.UTC())
		vevent.SetEndAt(e.Date.UTC().Add(eventDuration))
		vevent.SetSummary(e.Title)
		if name := names[e.BranchID]; name != "" {
			vevent.SetLocation(name)
		}
		vevent.AddProperty(ics.ComponentPropertyCategories, e.EventType)
	}

	return []byte(cal.Serialize()), nil
}

// eventUID stable calendar UID so clients update entries in place.
func eventUID(id uint) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("natesa:event:%d", id))).String() + "@natesa"
}
