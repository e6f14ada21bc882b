package handler

import (
	"net/http"

	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
	"inkfolio/internal/domain/model"
)

// HomeHandler serves the landing data: featured posts and projects.
type HomeHandler struct {
	postService    *service.PostService
	projectService *service.ProjectService
}

func NewHomeHandler(postService *service.PostService, projectService *service.ProjectService) *HomeHandler {
	return &HomeHandler{postService: postService, projectService: projectService}
}

func (h *HomeHandler) Featured(w http.ResponseWriter, r *http.Request) {
	featured := true

	posts, _, err := h.postService.List(r.Context(), &featured, 1)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	projects, _, err := h.projectService.List(r.Context(), &featured, 1)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	type homeResponse struct {
		Posts    []model.Post    `json:"posts"`
		Projects []model.Project `json:"projects"`
	}
	common.RespondWithJSON(w, http.StatusOK, homeResponse{Posts: posts, Projects: projects})
}
