package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/model"
)

type FinanceServiceInterface interface {
	Categories(ctx context.Context) (*model.Categories, error)
	Dashboard(ctx context.Context, id *identity.Identity) (*model.UserData, error)
	CompleteSetup(ctx context.Context, id *identity.Identity, input model.SetupPayload) (*model.UserData, error)
	CreateTransaction(ctx context.Context, id *identity.Identity, input model.TransactionForm) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id *identity.Identity, transactionID string) error
}

// FinanceHandler serves the Finance API consumed by the dashboard.
type FinanceHandler struct {
	service FinanceServiceInterface
}

func NewFinanceHandler(service FinanceServiceInterface) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// Categories handles GET /categories. It needs no authentication.
func (h *FinanceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// Dashboard handles GET /dashboard.
func (h *FinanceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Dashboard(r.Context(), GetIdentity(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Setup handles POST /setup.
func (h *FinanceHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var input model.SetupPayload
	if !decodeJSON(w, r, &input) {
		return
	}

	data, err := h.service.CompleteSetup(r.Context(), GetIdentity(r.Context()), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// CreateTransaction handles POST /transactions.
func (h *FinanceHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input model.TransactionForm
	if !decodeJSON(w, r, &input) {
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), GetIdentity(r.Context()), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /transactions/{id}.
func (h *FinanceHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteTransaction(r.Context(), GetIdentity(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
