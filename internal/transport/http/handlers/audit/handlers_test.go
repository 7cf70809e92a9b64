package audithandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"carepay/internal/auth"
	"carepay/internal/domain/audit"
	"carepay/internal/transport/http/middleware"
)

const testSecret = "audit-test-secret"

type fakeLister struct {
	events     []audit.Event
	lastFilter audit.Filter
	lastLimit  int
}

func (f *fakeLister) List(_ context.Context, filter audit.Filter, limit, _ int) ([]audit.Event, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	var out []audit.Event
	for _, evt := range f.events {
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.ActorID != "" && evt.ActorID != filter.ActorID {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}

func newRig(t *testing.T) (*chi.Mux, *fakeLister, string) {
	t.Helper()

	lister := &fakeLister{events: []audit.Event{
		{ID: 1, ActorID: "admin-1", Action: "payroll.record.approve", RecordID: "rec-1", CreatedAt: time.Now()},
		{ID: 2, ActorID: "admin-2", Action: "payroll.record.process", RecordID: "rec-1", CreatedAt: time.Now()},
	}}

	token, err := auth.GenerateToken(testSecret, auth.Claims{ActorID: "admin-1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	NewHandler(lister).RegisterRoutes(router)
	return router, lister, token
}

func TestListEventsRequiresActor(t *testing.T) {
	router, _, _ := newRig(t)

	req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestListEventsFilters(t *testing.T) {
	router, lister, token := newRig(t)

	req := httptest.NewRequest(http.MethodGet, "/audit/events?action=payroll.record.approve&actorId=admin-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if lister.lastFilter.Action != "payroll.record.approve" || lister.lastFilter.ActorID != "admin-1" {
		t.Fatalf("filter = %+v", lister.lastFilter)
	}
	if lister.lastLimit != 100 {
		t.Fatalf("limit = %d, want default 100", lister.lastLimit)
	}

	var env struct {
		Data []audit.Event `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != 1 {
		t.Fatalf("events = %+v, want the single approve event", env.Data)
	}
}
