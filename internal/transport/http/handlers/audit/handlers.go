package audithandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carepay/internal/domain/audit"
	"carepay/internal/transport/http/api"
	"carepay/internal/transport/http/middleware"
	"carepay/internal/transport/http/shared"
)

// Lister is the audit read-side the handler exposes.
type Lister interface {
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Lister
}

func NewHandler(service Lister) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/events", h.handleListEvents)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetActor(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	filter := audit.Filter{
		Action:  r.URL.Query().Get("action"),
		ActorID: r.URL.Query().Get("actorId"),
	}
	page := shared.ParsePagination(r, 100, 500)

	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, events, requestID)
}
