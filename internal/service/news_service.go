package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
)

// NewsService news post operations
type NewsService interface {
	Create(ctx context.Context, caller policy.Identity, req *dto.CreateNewsRequest) (*dto.NewsResponse, error)
	GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.NewsResponse, error)
	List(ctx context.Context, caller policy.Identity, req *dto.NewsListRequest) ([]dto.NewsResponse, int64, error)
	ListByBranch(ctx context.Context, caller policy.Identity, branchID uint, page dto.PaginationRequest) ([]dto.NewsResponse, int64, error)
	Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateNewsRequest) (*dto.NewsResponse, error)
	Delete(ctx context.Context, caller policy.Identity, id uint) error
}

type newsService struct {
	repo      *repository.Repository
	validator *validation.Engine
	now       func() time.Time
	logger    *zap.Logger
}

// NewNewsService creates a NewsService
func NewNewsService(repo *repository.Repository, v *validation.Engine, logger *zap.Logger) NewsService {
	return &newsService{repo: repo, validator: v, now: time.Now, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *newsService) Create(ctx context.Context, caller policy.Identity, req *dto.CreateNewsRequest) (*dto.NewsResponse, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := policy.Authorize(caller, policy.OpCreate, policy.EntityNews, policy.BranchScope(req.BranchID)); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	news := &model.News{
		Title:       req.Title,
		Content:     req.Content,
		BranchID:    req.BranchID,
		AuthorID:    req.AuthorID,
		PublishDate: s.now().UTC(),
	}
	if req.PublishDate != nil {
		news.PublishDate = req.PublishDate.UTC()
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkBranchAndUser(ctx, tx, news.BranchID, "author_id", news.AuthorID); err != nil {
			return err
		}
		return contentWriteErr(tx.News.Create(ctx, news), ErrNewsNotFound)
	})
	if err != nil {
		return nil, storeFailure(s.logger, "create news", err, zap.String("title", news.Title))
	}

	resp := toNewsResponse(news)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *newsService) GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.NewsResponse, error) {
	news, err := s.repo.News.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get news", notFound(err, ErrNewsNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpRead, policy.EntityNews, policy.BranchScope(news.BranchID)); err != nil {
		return nil, err
	}
	resp := toNewsResponse(news)
	return &resp, nil
}

func (s *newsService) List(ctx context.Context, caller policy.Identity, req *dto.NewsListRequest) ([]dto.NewsResponse, int64, error) {
	scope, err := policy.ListScope(caller, policy.EntityNews)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.NewsFilter{BranchID: req.BranchID}
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	posts, total, err := s.repo.News.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storeFailure(s.logger, "list news", err)
	}
	return mapSlice(posts, toNewsResponse), total, nil
}

func (s *newsService) ListByBranch(ctx context.Context, caller policy.Identity, branchID uint, page dto.PaginationRequest) ([]dto.NewsResponse, int64, error) {
	if _, err := s.repo.Branch.GetByID(ctx, branchID); err != nil {
		return nil, 0, storeFailure(s.logger, "get branch", notFound(err, ErrBranchNotFound), zap.Uint("id", branchID))
	}
	return s.List(ctx, caller, &dto.NewsListRequest{PaginationRequest: page, BranchID: &branchID})
}

// ────────────────────── Update ──────────────────────

func (s *newsService) Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateNewsRequest) (*dto.NewsResponse, error) {
	target, err := s.repo.News.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get news", notFound(err, ErrNewsNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityNews, policy.BranchScope(target.BranchID)); err != nil {
		return nil, err
	}
	if err := s.validator.NewsPatch(req); err != nil {
		return nil, err
	}
	if b, ok := req.BranchID.Get(); ok {
		if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityNews, policy.BranchScope(b)); err != nil {
			return nil, err
		}
	}

	columns := map[string]interface{}{}
	if v, ok := req.Title.Get(); ok {
		columns["title"] = strings.TrimSpace(v)
	}
	if v, ok := req.Content.Get(); ok {
		columns["content"] = v
	}
	if v, ok := req.BranchID.Get(); ok {
		columns["branch_id"] = v
	}
	if v, ok := req.AuthorID.Get(); ok {
		columns["author_id"] = v
	}
	if v, ok := req.PublishDate.Get(); ok {
		columns["publish_date"] = v.UTC()
	}

	var updated *model.News
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.News.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrNewsNotFound)
		}
		branchID, _ := req.BranchID.Get()
		authorID, _ := req.AuthorID.Get()
		if err := checkBranchAndUser(ctx, tx, branchID, "author_id", authorID); err != nil {
			return err
		}
		if err := contentWriteErr(tx.News.Update(ctx, locked.ID, locked.Version, columns), ErrNewsNotFound); err != nil {
			return err
		}
		updated, err = tx.News.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "update news", err, zap.Uint("id", id))
	}

	resp := toNewsResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *newsService) Delete(ctx context.Context, caller policy.Identity, id uint) error {
	target, err := s.repo.News.GetByID(ctx, id)
	if err != nil {
		return storeFailure(s.logger, "get news", notFound(err, ErrNewsNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpDelete, policy.EntityNews, policy.BranchScope(target.BranchID)); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.News.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrNewsNotFound)
		}
		return deleteErr(tx.News.Delete(ctx, id), ErrNewsNotFound)
	})
	return storeFailure(s.logger, "delete news", err, zap.Uint("id", id))
}
