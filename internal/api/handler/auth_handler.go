package handler

import (
	"net/http"
	"time"

	"inkfolio/internal/api/middleware"
	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
	"inkfolio/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	sessionTTL  time.Duration
}

func NewAuthHandler(authService *service.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireUser)
		authed.Get("/logout", h.logout)
	})
}

func (h *AuthHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"fields": []string{"name", "email", "password", "confirm_password"},
	})
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.PrincipalFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"fields":        []string{"email", "password"},
		"authenticated": authenticated,
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, 0); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	req := service.RegisterRequest{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	if _, err := h.authService.Register(r.Context(), req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, 0); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	req := service.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	_, token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	sid, err := security.SessionIDFromContext(r.Context())
	if err == nil {
		if err := h.authService.Logout(r.Context(), sid); err != nil {
			common.RespondWithDomainError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
