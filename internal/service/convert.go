package service

import (
	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
)

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		BranchID:    u.BranchID,
		IsBECMember: u.IsBECMember,
		NECPosition: u.NECPosition,
		BECPosition: u.BECPosition,
		Status:      u.Status,
		CreatedAt:   dto.FormatTime(u.CreatedAt),
		UpdatedAt:   dto.FormatTime(u.UpdatedAt),
	}
	if u.Branch != nil {
		resp.Branch = &dto.BranchSummary{ID: u.Branch.ID, Name: u.Branch.Name}
	}
	return resp
}

func toBranchResponse(b *model.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:          b.ID,
		Name:        b.Name,
		University:  b.University,
		Province:    b.Province,
		MemberCount: b.MemberCount,
		AlumniCount: b.AlumniCount,
		CreatedAt:   dto.FormatTime(b.CreatedAt),
		UpdatedAt:   dto.FormatTime(b.UpdatedAt),
	}
}

func toAlumniResponse(a *model.Alumni) dto.AlumniResponse {
	return dto.AlumniResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		BranchID:       a.BranchID,
		GraduationDate: dto.FormatTime(a.GraduationDate),
		Degree:         a.Degree,
		CurrentStatus:  a.CurrentStatus,
		CreatedAt:      dto.FormatTime(a.CreatedAt),
		UpdatedAt:      dto.FormatTime(a.UpdatedAt),
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        e.ID,
		Title:     e.Title,
		Date:      dto.FormatTime(e.Date),
		BranchID:  e.BranchID,
		CreatedBy: e.CreatedBy,
		EventType: e.EventType,
		CreatedAt: dto.FormatTime(e.CreatedAt),
		UpdatedAt: dto.FormatTime(e.UpdatedAt),
	}
}

func toNewsResponse(n *model.News) dto.NewsResponse {
	return dto.NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		BranchID:    n.BranchID,
		AuthorID:    n.AuthorID,
		PublishDate: dto.FormatTime(n.PublishDate),
		CreatedAt:   dto.FormatTime(n.CreatedAt),
		UpdatedAt:   dto.FormatTime(n.UpdatedAt),
	}
}

func mapSlice[T any, R any](in []T, fn func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
