package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-task-backend/internal/config"
	"github.com/tbourn/go-task-backend/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

// newRouter assembles the full engine the way main does, over an isolated
// in-memory database.
func newRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.User{}, &domain.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		Port:           "8080",
		Env:            "dev",
		BodyLimitBytes: 1 << 20,
		RateRPS:        1000,
		RateBurst:      1000,
	}
	cfg.Auth.JWTSecret = "router-test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.BcryptCost = 4
	cfg.OTEL.ServiceName = "go-task-backend-test"

	r := gin.New()
	RegisterRoutes(r, db, cfg)
	return r
}

func request(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(t)

	w := request(t, r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}
	if jsonBody(t, w)["status"] != "OK" {
		t.Fatalf("body: %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("every response should carry X-Request-ID")
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newRouter(t)

	// Generate at least one sample so the counter shows up in the output.
	request(t, r, http.MethodGet, "/health", "", "")

	w := request(t, r, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatal("expected Prometheus exposition output")
	}
}

func TestRouter_NoRouteEnvelope(t *testing.T) {
	r := newRouter(t)

	w := request(t, r, http.MethodGet, "/does/not/exist", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: %d", w.Code)
	}
	body := jsonBody(t, w)
	if body["error"] != "Route not found" || body["type"] != "NotFoundError" {
		t.Fatalf("envelope: %v", body)
	}
	if body["path"] != "/does/not/exist" || body["method"] != http.MethodGet {
		t.Fatalf("request echo: %v", body)
	}

	// A known path with the wrong verb is a 405, not a 404.
	w = request(t, r, http.MethodPatch, "/health", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong verb: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_SecurityHeadersPresent(t *testing.T) {
	r := newRouter(t)

	w := request(t, r, http.MethodGet, "/health", "", "")
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing hardening headers: %v", w.Header())
	}
}

func TestRouter_FullAccountAndTaskFlow(t *testing.T) {
	r := newRouter(t)

	w := request(t, r, http.MethodPost, "/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	w = request(t, r, http.MethodPost, "/users/login",
		`{"email":"alice@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	token, _ := jsonBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("no token")
	}

	w = request(t, r, http.MethodPost, "/tasks", `{"title":"Ship release"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", w.Code, w.Body.String())
	}
	task, _ := jsonBody(t, w)["task"].(map[string]any)
	id, _ := task["id"].(float64)

	w = request(t, r, http.MethodGet, "/tasks", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	tasks, _ := jsonBody(t, w)["tasks"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("list size: %d", len(tasks))
	}

	w = request(t, r, http.MethodDelete, fmt.Sprintf("/tasks/%.0f", id), "", token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}

	// Unauthenticated access to the task routes is rejected.
	w = request(t, r, http.MethodGet, "/tasks", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_BodyLimit(t *testing.T) {
	r := newRouter(t)

	// A body over the configured cap fails during decode; the strict JSON
	// binder reports it as a validation problem rather than a crash.
	huge := `{"name":"` + strings.Repeat("a", 2<<20) + `","email":"a@b.co","password":"secret1"}`
	w := request(t, r, http.MethodPost, "/users/register", huge, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", w.Code)
	}
}
