package invoices

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/washline/washline/internal/platform/httpx"
	"github.com/washline/washline/internal/shared"
)

// IdempotencyScope namespaces invoice creation keys.
const IdempotencyScope = "invoices"

// IdempotencyKeys guards against replayed create requests.
type IdempotencyKeys interface {
	Claim(ctx context.Context, scope, key string) error
	Release(ctx context.Context, scope, key string) error
}

// Handler exposes invoice endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	keys      IdempotencyKeys
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. keys may be nil, in which case
// the Idempotency-Key header is ignored.
func NewHandler(logger *slog.Logger, service *Service, keys IdempotencyKeys) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, keys: keys, validator: httpx.NewValidator()}
}

// MountRoutes registers invoice routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// MountOrderRoutes registers the nested invoice listing under an orders router.
func (h *Handler) MountOrderRoutes(r chi.Router) {
	r.Get("/{id}/invoices", h.listByOrder)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" && h.keys != nil {
		if err := h.keys.Claim(r.Context(), IdempotencyScope, key); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}

	res, err := h.service.CreateInvoice(r.Context(), req, shared.ActorFromContext(r.Context()))
	if err != nil {
		if key != "" && h.keys != nil {
			if rerr := h.keys.Release(context.WithoutCancel(r.Context()), IdempotencyScope, key); rerr != nil {
				h.logger.Error("release idempotency key", slog.Any("error", rerr))
			}
		}
		h.logger.Warn("create invoice", slog.String("order_id", req.OrderID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	inv, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	res, err := h.service.UpdateInvoice(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("update invoice", slog.String("invoice_id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	res, err := h.service.DeleteInvoice(r.Context(), id)
	if err != nil {
		h.logger.Warn("delete invoice", slog.String("invoice_id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) listByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	invs, err := h.service.ListByOrder(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if invs == nil {
		invs = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": invs})
}
