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

type PostHandler struct {
	postService    *service.PostService
	maxUploadBytes int64
}

func NewPostHandler(postService *service.PostService, maxUploadBytes int64) *PostHandler {
	return &PostHandler{postService: postService, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the /post subtree. The listing lives at /blog and is
// registered by the router directly.
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{postID}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/new", h.create)
		admin.Post("/{postID}/edit", h.edit)
		admin.Post("/{postID}/delete", h.delete)
	})
}

// List handles GET /blog. Page size is fixed; only the page number comes
// from the query string.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	var featured *bool
	if v := r.URL.Query().Get("featured"); v != "" {
		f := v == "true" || v == "1"
		featured = &f
	}

	posts, total, err := h.postService.List(r.Context(), featured, page)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	type paginatedPostsResponse struct {
		Posts    []model.Post `json:"posts"`
		Total    int          `json:"total"`
		Page     int          `json:"page"`
		PageSize int          `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedPostsResponse{
		Posts:    posts,
		Total:    total,
		Page:     page,
		PageSize: h.postService.PageSize(),
	})
}

func (h *PostHandler) get(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
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

	req := service.CreatePostRequest{
		Title:     r.FormValue("title"),
		Body:      r.FormValue("body"),
		Thumbnail: thumbnail,
	}
	if f := formBool(r, "featured"); f != nil {
		req.Featured = *f
	}

	post, err := h.postService.Create(r.Context(), principal.ID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

func (h *PostHandler) edit(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	if err := parseForm(r, h.maxUploadBytes); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	req := service.UpdatePostRequest{
		Title:     formString(r, "title"),
		Body:      formString(r, "body"),
		Featured:  formBool(r, "featured"),
		Thumbnail: thumbnail,
	}

	post, err := h.postService.Update(r.Context(), postID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

func (h *PostHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Delete(r.Context(), chi.URLParam(r, "postID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}
