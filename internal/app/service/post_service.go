package service

import (
	"context"
	"fmt"
	"log"

	"inkfolio/internal/domain/model"
	"inkfolio/internal/domain/repository"

	"github.com/google/uuid"
)

type PostService struct {
	postRepo repository.PostRepository
	assets   AssetStore
	pageSize int
}

func NewPostService(postRepo repository.PostRepository, assets AssetStore, pageSize int) *PostService {
	return &PostService{postRepo: postRepo, assets: assets, pageSize: pageSize}
}

func (s *PostService) PageSize() int { return s.pageSize }

type CreatePostRequest struct {
	Title     string `validate:"required,min=1,max=200"`
	Body      string `validate:"required"`
	Featured  bool
	Thumbnail *Upload
}

type UpdatePostRequest struct {
	Title     *string `validate:"omitempty,min=1,max=200"`
	Body      *string `validate:"omitempty,min=1"`
	Featured  *bool
	Thumbnail *Upload
}

// Create persists a new post for authorID. The thumbnail, when present, is
// written to the asset store first; if that write fails the post is not
// persisted. A row failure after the write leaves an orphan file, which is
// acceptable and non-fatal.
func (s *PostService) Create(ctx context.Context, authorID string, req CreatePostRequest) (*model.Post, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Body:     req.Body,
		Featured: req.Featured,
		AuthorID: authorID,
	}

	if req.Thumbnail != nil {
		stored, err := s.assets.Save(req.Thumbnail.Data, req.Thumbnail.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		post.Thumbnail = &stored
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

// List returns one page of posts, newest first. featured == nil disables the
// featured filter.
func (s *PostService) List(ctx context.Context, featured *bool, page int) ([]model.Post, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize
	return s.postRepo.List(ctx, featured, s.pageSize, offset)
}

// Update applies a partial patch. A new thumbnail is saved before the row
// update; the previous file is removed only after the row change sticks.
func (s *PostService) Update(ctx context.Context, id string, req UpdatePostRequest) (*model.Post, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}

	var oldThumbnail string
	if req.Thumbnail != nil {
		stored, err := s.assets.Save(req.Thumbnail.Data, req.Thumbnail.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		if post.Thumbnail != nil {
			oldThumbnail = *post.Thumbnail
		}
		post.Thumbnail = &stored
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if oldThumbnail != "" {
		if err := s.assets.Delete(oldThumbnail); err != nil {
			log.Printf("WARN: failed to remove replaced thumbnail %s: %v", oldThumbnail, err)
		}
	}
	return post, nil
}

// Delete removes the row, then its asset file. Asset removal is idempotent
// and a failure there does not resurrect the row.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if post.Thumbnail != nil {
		if err := s.assets.Delete(*post.Thumbnail); err != nil {
			log.Printf("WARN: failed to remove thumbnail %s for deleted post %s: %v", *post.Thumbnail, id, err)
		}
	}
	return nil
}
