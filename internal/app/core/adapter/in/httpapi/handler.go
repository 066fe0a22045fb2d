package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

// readyTimeout /readyz 檢查儲存層的逾時
const readyTimeout = 2 * time.Second

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
	Version   int64  `json:"version"`
}

type MismatchResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
	Expected  string `json:"expected"`
}

type ReconcileResponse struct {
	Mismatches []MismatchResponse `json:"mismatches"`
}

// Handler 營運用 HTTP 端點 (健康檢查、餘額查詢、對帳)
type Handler struct {
	core       *usecase.CoreUseCase
	reconciler *usecase.Reconciler
	logger     zerolog.Logger
}

func NewHandler(core *usecase.CoreUseCase, reconciler *usecase.Reconciler, logger zerolog.Logger) *Handler {
	return &Handler{
		core:       core,
		reconciler: reconciler,
		logger:     logger,
	}
}

// NewRouter 掛上所有路由與 request log middleware
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogging(h.logger))

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readyz).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}/balance", h.GetBalance).Methods(http.MethodGet)
	r.HandleFunc("/reconcile", h.Reconcile).Methods(http.MethodPost)
	return r
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.core.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("storage not ready")
		h.respondWithError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	account, err := h.core.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.respondWithError(w, http.StatusNotFound, "account_not_found", err.Error())
			return
		}
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("get balance failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, BalanceResponse{
		AccountID: account.ExternalID,
		Currency:  account.Currency().Code(),
		Amount:    account.Balance.Value().StringFixed(account.Currency().Digits()),
		Version:   account.Version,
	})
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	mismatches, err := h.reconciler.Reconcile(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("reconcile failed")
		h.respondWithError(w, http.StatusInternalServerError, "reconcile_failed", err.Error())
		return
	}

	resp := ReconcileResponse{
		Mismatches: make([]MismatchResponse, 0, len(mismatches)),
	}
	for _, m := range mismatches {
		resp.Mismatches = append(resp.Mismatches, MismatchResponse{
			AccountID: m.ExternalID,
			Balance:   m.Balance.String(),
			Expected:  m.Expected.String(),
		})
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, errorType, message string) {
	h.respondWithJSON(w, code, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}
