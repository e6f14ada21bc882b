package service

import (
	"context"
	"fmt"
	"log"

	"inkfolio/internal/domain/model"
	"inkfolio/internal/domain/repository"

	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
	assets      AssetStore
	pageSize    int
}

func NewProjectService(projectRepo repository.ProjectRepository, assets AssetStore, pageSize int) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, assets: assets, pageSize: pageSize}
}

func (s *ProjectService) PageSize() int { return s.pageSize }

type CreateProjectRequest struct {
	Title     string `validate:"required,min=1,max=200"`
	Summary   string `validate:"required,max=300"`
	Link      string `validate:"omitempty,url"`
	Body      string `validate:"required"`
	Featured  bool
	Thumbnail *Upload
}

type UpdateProjectRequest struct {
	Title     *string `validate:"omitempty,min=1,max=200"`
	Summary   *string `validate:"omitempty,min=1,max=300"`
	Link      *string `validate:"omitempty,url"`
	Body      *string `validate:"omitempty,min=1"`
	Featured  *bool
	Thumbnail *Upload
}

// Create mirrors PostService.Create: asset first, row second, orphan file on
// row failure tolerated.
func (s *ProjectService) Create(ctx context.Context, authorID string, req CreateProjectRequest) (*model.Project, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Summary:  req.Summary,
		Body:     req.Body,
		Featured: req.Featured,
		AuthorID: authorID,
	}
	if req.Link != "" {
		link := req.Link
		project.Link = &link
	}

	if req.Thumbnail != nil {
		stored, err := s.assets.Save(req.Thumbnail.Data, req.Thumbnail.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		project.Thumbnail = &stored
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, featured *bool, page int) ([]model.Project, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize
	return s.projectRepo.List(ctx, featured, s.pageSize, offset)
}

func (s *ProjectService) Update(ctx context.Context, id string, req UpdateProjectRequest) (*model.Project, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Summary != nil {
		project.Summary = *req.Summary
	}
	if req.Link != nil {
		if *req.Link == "" {
			project.Link = nil
		} else {
			project.Link = req.Link
		}
	}
	if req.Body != nil {
		project.Body = *req.Body
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}

	var oldThumbnail string
	if req.Thumbnail != nil {
		stored, err := s.assets.Save(req.Thumbnail.Data, req.Thumbnail.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		if project.Thumbnail != nil {
			oldThumbnail = *project.Thumbnail
		}
		project.Thumbnail = &stored
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if oldThumbnail != "" {
		if err := s.assets.Delete(oldThumbnail); err != nil {
			log.Printf("WARN: failed to remove replaced thumbnail %s: %v", oldThumbnail, err)
		}
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if project.Thumbnail != nil {
		if err := s.assets.Delete(*project.Thumbnail); err != nil {
			log.Printf("WARN: failed to remove thumbnail %s for deleted project %s: %v", *project.Thumbnail, id, err)
		}
	}
	return nil
}
