package handler

import (
	"context"
	"net/http"

	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/model"
)

type BlogServiceInterface interface {
	List(ctx context.Context) ([]model.Blog, error)
	Create(ctx context.Context, author *identity.Identity, input model.BlogInput) (*model.Blog, error)
}

type BlogHandler struct {
	service BlogServiceInterface
}

func NewBlogHandler(service BlogServiceInterface) *BlogHandler {
	return &BlogHandler{service: service}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.BlogInput
	if !decodeJSON(w, r, &input) {
		return
	}

	blog, err := h.service.Create(r.Context(), GetIdentity(r.Context()), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, blog)
}
