package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
)

// sessionCookieName must stay "jwt": jwtauth.TokenFromCookie looks the token
// up under that name.
const sessionCookieName = "jwt"

// parseForm accepts both urlencoded and multipart bodies, capping multipart
// memory at maxUploadBytes.
func parseForm(r *http.Request, maxUploadBytes int64) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return fmt.Errorf("invalid multipart form: %w", common.ErrBadRequest)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form: %w", common.ErrBadRequest)
	}
	return nil
}

// formUpload reads an optional file field. Absence is not an error.
func formUpload(r *http.Request, field string) (*service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s upload: %w", field, common.ErrBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", field, common.ErrBadRequest)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &service.Upload{Data: data, Filename: header.Filename}, nil
}

// formString returns a pointer to the field value only when the field was
// submitted, so edit handlers can tell "unchanged" from "set to empty".
func formString(r *http.Request, field string) *string {
	values, ok := r.Form[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formBool interprets the usual checkbox spellings.
func formBool(r *http.Request, field string) *bool {
	v := formString(r, field)
	if v == nil {
		return nil
	}
	b := *v == "on" || *v == "true" || *v == "1"
	return &b
}
