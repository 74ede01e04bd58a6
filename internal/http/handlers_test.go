package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"myfinance/internal/core"
	"myfinance/internal/ledger"
	applog "myfinance/internal/log"
	"myfinance/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := ledger.Open(context.Background(), storage.NewMemoryRepository())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	logger := applog.New(applog.DefaultConfig())
	return NewServer(":0", store, "meus_dados_financeiros.json", logger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateEntryAndTotals(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/entries", map[string]string{
		"kind": "income", "value": "3000", "description": "salário", "category": "Outros",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income: got %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, s, http.MethodPost, "/api/entries", map[string]string{
		"kind": "expense", "value": "45,99", "description": "mercado", "category": "Alimentação", "date": "2026-08-03",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense: got %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/totals", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("totals: got %d", rec.Code)
	}
	var totals core.Totals
	if err := json.Unmarshal(rec.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if totals.TotalIncome.Cents != 300000 || totals.TotalExpenses.Cents != 4599 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.ProjectedBalance.Cents != 300000-4599 {
		t.Fatalf("unexpected balance: %d", totals.ProjectedBalance.Cents)
	}
}

func TestCreateEntryRejectsZeroValue(t *testing.T) {
	s := newTestServer(t)
	before := s.store.Snapshot()

	rec := doJSON(t, s, http.MethodPost, "/api/entries", map[string]string{
		"kind": "expense", "value": "0", "description": "coffee", "category": "Food",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422; body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Fatalf("expected error notification, got %s", rec.Body)
	}
	if !reflect.DeepEqual(before, s.store.Snapshot()) {
		t.Fatalf("rejected entry must leave state unchanged")
	}
}

func TestRemoveEntryAbsentIDIsOK(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/api/entries?kind=expense&id=nope", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("absent id must be a 200 no-op, got %d", rec.Code)
	}
}

func TestGoalLifecycleOverAPI(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals", map[string]string{
		"name": "Bike", "price": "1500", "priority": "High",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal: got %d, body %s", rec.Code, rec.Body)
	}
	var created struct {
		Data core.Goal `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.Bought || created.Data.Priority != core.High {
		t.Fatalf("unexpected goal: %+v", created.Data)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/toggle?id="+created.Data.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: got %d", rec.Code)
	}
	if !s.store.Snapshot().Goals[0].Bought {
		t.Fatalf("expected bought after toggle")
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/goals?id="+created.Data.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: got %d", rec.Code)
	}
	if len(s.store.Snapshot().Goals) != 0 {
		t.Fatalf("goal not removed")
	}
}

func TestCategoryDuplicateRejected(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/categories", map[string]string{"name": "Viagem"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]string{"name": "viagem"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate: got %d, want 422", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPut, "/api/profile", map[string]string{
		"name": "Ana", "email": "ana@example.com", "bio": "economizando",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d", rec.Code)
	}
	if got := s.store.Snapshot().User.Name; got != "Ana" {
		t.Fatalf("got %q", got)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/profile", map[string]string{"name": " "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty name: got %d, want 422", rec.Code)
	}
}

func TestExportImportRoundTripOverAPI(t *testing.T) {
	s := newTestServer(t)
	if rec := doJSON(t, s, http.MethodPost, "/api/entries", map[string]string{
		"kind": "expense", "value": "45.99", "description": "mercado", "category": "Alimentação",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("seed: got %d", rec.Code)
	}
	want := s.store.Snapshot()

	rec := doJSON(t, s, http.MethodGet, "/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "meus_dados_financeiros.json") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	// Content-Length proves the document was encoded in full before the
	// response was committed.
	if cl := rec.Header().Get("Content-Length"); cl != strconv.Itoa(rec.Body.Len()) {
		t.Fatalf("Content-Length %q does not match body length %d", cl, rec.Body.Len())
	}

	other := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader(rec.Body.Bytes()))
	req.Header.Set("Content-Type", "application/json")
	rec2 := httptest.NewRecorder()
	other.Server.Handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("import: got %d, body %s", rec2.Code, rec2.Body)
	}
	if !reflect.DeepEqual(want, other.store.Snapshot()) {
		t.Fatalf("import must reproduce the exported state")
	}
}

func TestImportInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	before := s.store.Snapshot()

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{"entries": [`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
	if !reflect.DeepEqual(before, s.store.Snapshot()) {
		t.Fatalf("failed import must leave state unchanged")
	}
}

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Level:   slog.LevelInfo,
		Handler: slog.NewTextHandler(&buf, nil),
	})
	store, err := ledger.Open(context.Background(), storage.NewMemoryRepository())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s := NewServer(":0", store, "meus_dados_financeiros.json", logger)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("X-Request-ID", "req_fixed")
	s.Server.Handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, applog.FieldRequestID+"=req_fixed") {
		t.Fatalf("request logs must carry the request id, got %q", out)
	}
	if !strings.Contains(out, applog.FieldComponent+"="+applog.ComponentHTTP) {
		t.Fatalf("request logs must carry the http component, got %q", out)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got %d", path, rec.Code)
		}
	}
}
