package payrollhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carepay/internal/domain/audit"
	"carepay/internal/domain/payroll"
	"carepay/internal/platform/metrics"
	"carepay/internal/transport/http/api"
	"carepay/internal/transport/http/middleware"
	"carepay/internal/transport/http/shared"
)

type Handler struct {
	Workflow *payroll.Workflow
	Repo     payroll.Repository
	Audit    *audit.Service
}

func NewHandler(workflow *payroll.Workflow, repo payroll.Repository, auditSvc *audit.Service) *Handler {
	return &Handler{Workflow: workflow, Repo: repo, Audit: auditSvc}
}

type periodPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type approvePayload struct {
	CaregiverID string `json:"caregiverId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type paidPayload struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Get("/records", h.handleListRecords)
		r.Get("/periods/summary", h.handleSummary)
		r.Post("/records/approve", h.handleApprove)
		r.Post("/records/{caregiverID}/process", h.handleProcess)
		r.Post("/records/{caregiverID}/paid", h.handleMarkPaid)
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	start := time.Now()

	var payload periodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	period, ok := parsePeriod(w, payload.StartDate, payload.EndDate, requestID)
	if !ok {
		return
	}

	records, err := h.Workflow.Calculate(r.Context(), period)
	if err != nil {
		h.failDomain(w, r, "payroll_calculate_failed", err)
		return
	}
	metrics.RecordCalculation(start)
	api.Success(w, records, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload approvePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	period, ok := parsePeriod(w, payload.StartDate, payload.EndDate, requestID)
	if !ok {
		return
	}

	start := time.Now()
	record, err := h.Workflow.Approve(r.Context(), payload.CaregiverID, period, actor.ID)
	metrics.RecordTransition("approve", err, start)
	if err != nil {
		h.failDomain(w, r, "payroll_approve_failed", err)
		return
	}

	h.recordAudit(r, actor.ID, "payroll.record.approve", record.ID, nil, record)
	api.Created(w, record, requestID)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	caregiverID := chi.URLParam(r, "caregiverID")

	start := time.Now()
	record, err := h.Workflow.Process(r.Context(), caregiverID, actor.ID)
	metrics.RecordTransition("process", err, start)
	if err != nil {
		h.failDomain(w, r, "payroll_process_failed", err)
		return
	}

	h.recordAudit(r, actor.ID, "payroll.record.process", record.ID, nil, record)
	api.Success(w, map[string]any{"record": record, "checkNumber": record.CheckNumber}, requestID)
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	caregiverID := chi.URLParam(r, "caregiverID")

	var payload paidPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	start := time.Now()
	record, err := h.Workflow.MarkPaid(r.Context(), caregiverID, actor.ID, payload.PaymentMethod)
	metrics.RecordTransition("paid", err, start)
	if err != nil {
		h.failDomain(w, r, "payroll_paid_failed", err)
		return
	}

	h.recordAudit(r, actor.ID, "payroll.record.paid", record.ID, nil, record)
	api.Success(w, record, requestID)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter := payroll.RecordFilter{
		Status:      r.URL.Query().Get("status"),
		CaregiverID: r.URL.Query().Get("caregiverId"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid filter",
				map[string]string{"field": "from", "reason": "must be a valid date"}, requestID)
			return
		}
		filter.From = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid filter",
				map[string]string{"field": "to", "reason": "must be a valid date"}, requestID)
			return
		}
		filter.To = parsed
	}

	page := shared.ParsePagination(r, 50, 200)
	records, err := h.Repo.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		h.failDomain(w, r, "payroll_list_failed", err)
		return
	}
	total, err := h.Repo.Count(r.Context(), filter)
	if err != nil {
		h.failDomain(w, r, "payroll_list_failed", err)
		return
	}
	api.Success(w, map[string]any{"records": records, "total": total}, requestID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"), requestID)
	if !ok {
		return
	}

	summary, err := h.Repo.Summary(r.Context(), period)
	if err != nil {
		h.failDomain(w, r, "payroll_summary_failed", err)
		return
	}
	api.Success(w, summary, requestID)
}

func parsePeriod(w http.ResponseWriter, startRaw, endRaw string, requestID string) (payroll.Period, bool) {
	start, err := shared.ParseDate(startRaw)
	if err != nil || start.IsZero() {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid pay period",
			map[string]string{"field": "startDate", "reason": "must be a valid date"}, requestID)
		return payroll.Period{}, false
	}
	end, err := shared.ParseDate(endRaw)
	if err != nil || end.IsZero() {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid pay period",
			map[string]string{"field": "endDate", "reason": "must be a valid date"}, requestID)
		return payroll.Period{}, false
	}
	period := payroll.Period{Start: start, End: end}
	if err := period.Validate(); err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid pay period",
			map[string]string{"field": "endDate", "reason": "must be on or after startDate"}, requestID)
		return payroll.Period{}, false
	}
	return period, true
}

// failDomain maps domain errors to responses. Internal failures are logged
// with detail and surfaced as a generic message.
func (h *Handler) failDomain(w http.ResponseWriter, r *http.Request, code string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidStateTransition):
		api.Fail(w, http.StatusConflict, "invalid_state_transition", err.Error(), requestID)
	case errors.Is(err, payroll.ErrConcurrencyConflict):
		api.Fail(w, http.StatusConflict, "concurrency_conflict", err.Error(), requestID)
	default:
		log.Printf("payroll request %s failed: %v", requestID, err)
		api.Fail(w, http.StatusInternalServerError, code, "payroll operation failed", requestID)
	}
}

func (h *Handler) recordAudit(r *http.Request, actorID, action, recordID string, before, after any) {
	if h.Audit == nil {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actorID, action, recordID, requestID, before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
