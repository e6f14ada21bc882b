package handler

import (
	"net/http"
	"strconv"

	"inkfolio/internal/api/middleware"
	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
	"inkfolio/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// ProjectHandler mirrors PostHandler for portfolio projects.
type ProjectHandler struct {
	projectService *service.ProjectService
	maxUploadBytes int64
}

func NewProjectHandler(projectService *service.ProjectService, maxUploadBytes int64) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, maxUploadBytes: maxUploadBytes}
}

func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{projectID}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/new", h.create)
		admin.Post("/{projectID}/edit", h.edit)
		admin.Post("/{projectID}/delete", h.delete)
	})
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	var featured *bool
	if v := r.URL.Query().Get("featured"); v != "" {
		f := v == "true" || v == "1"
		featured = &f
	}

	projects, total, err := h.projectService.List(r.Context(), featured, page)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	type paginatedProjectsResponse struct {
		Projects []model.Project `json:"projects"`
		Total    int             `json:"total"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedProjectsResponse{
		Projects: projects,
		Total:    total,
		Page:     page,
		PageSize: h.projectService.PageSize(),
	})
}

func (h *ProjectHandler) get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := parseForm(r, h.maxUploadBytes); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	req := service.CreateProjectRequest{
		Title:     r.FormValue("title"),
		Summary:   r.FormValue("summary"),
		Link:      r.FormValue("link"),
		Body:      r.FormValue("body"),
		Thumbnail: thumbnail,
	}
	if f := formBool(r, "featured"); f != nil {
		req.Featured = *f
	}

	project, err := h.projectService.Create(r.Context(), principal.ID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/project/"+project.ID, http.StatusSeeOther)
}

func (h *ProjectHandler) edit(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	if err := parseForm(r, h.maxUploadBytes); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	req := service.UpdateProjectRequest{
		Title:     formString(r, "title"),
		Summary:   formString(r, "summary"),
		Link:      formString(r, "link"),
		Body:      formString(r, "body"),
		Featured:  formBool(r, "featured"),
		Thumbnail: thumbnail,
	}

	project, err := h.projectService.Update(r.Context(), projectID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/project/"+project.ID, http.StatusSeeOther)
}

func (h *ProjectHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
