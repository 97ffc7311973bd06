package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"sideline-backend/internal/auth"
	"sideline-backend/internal/config"
	"sideline-backend/internal/email"
	"sideline-backend/internal/events"
	"sideline-backend/internal/handlers"
	"sideline-backend/internal/health"
	internalhttp "sideline-backend/internal/http"
	"sideline-backend/internal/middleware"
	"sideline-backend/internal/models"
	"sideline-backend/internal/monitoring"
	"sideline-backend/internal/repositories"
	"sideline-backend/internal/services"
	"sideline-backend/internal/storage"
)

// memStore is an in-memory stand-in for the batch repository.
type memStore struct {
	batches map[string]models.Batch
	order   []string
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{batches: make(map[string]models.Batch)}
}

func (s *memStore) Create(_ context.Context, batch *models.Batch) error {
	s.nextID++
	batch.ID = fmt.Sprintf("batch-%d", s.nextID)
	batch.CreatedAt = time.Now()
	s.batches[batch.ID] = *batch
	s.order = append(s.order, batch.ID)
	return nil
}

func (s *memStore) ListAll(_ context.Context) ([]models.Batch, error) {
	var out []models.Batch
	for i := len(s.order) - 1; i >= 0; i-- {
		if b, ok := s.batches[s.order[i]]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*models.Batch, error) {
	b, ok := s.batches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	if _, ok := s.batches[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.batches, id)
	return nil
}

type testEnv struct {
	router   http.Handler
	store    *memStore
	objects  storage.ObjectStorage
	provider *email.MockProvider
	token    string
}

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "opensesame"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := &config.Config{
		Admin: config.AdminConfig{Email: testAdminEmail, PasswordHash: string(hash)},
		JWT:   config.JWTConfig{Secret: "test-secret", TTLHours: 1},
	}

	objects, err := storage.NewLocalStorage(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	store := newMemStore()
	hub := events.NewHub()
	svc := services.NewBatchService(store, objects, hub)
	provider := email.NewMockProvider()

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)
	jwtManager := auth.NewJWTManager(cfg)

	router := internalhttp.NewRouter(internalhttp.RouterDeps{
		Contact:  handlers.NewContactHandler(provider, metrics),
		Auth:     handlers.NewAuthHandler(cfg.Admin, jwtManager),
		Batches:  handlers.NewBatchHandler(svc, metrics),
		Gallery:  handlers.NewGalleryHandler(svc),
		Status:   handlers.NewStatusHandler(svc, hub, "/"),
		Health:   health.NewChecker(nil),
		Hub:      hub,
		AuthMW:   middleware.NewAuthMiddleware(jwtManager),
		Metrics:  metrics,
		Registry: registry,
	})

	token, err := jwtManager.Generate(testAdminEmail)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return &testEnv{router: router, store: store, objects: objects, provider: provider, token: token}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rr.Body.String(), err)
	}
	return out
}

// uploadBatch pushes a multipart upload through the router and returns the
// created batch's id.
func (e *testEnv) uploadBatch(t *testing.T, title string, filenames ...string) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if title != "" {
		mw.WriteField("title", title)
	}
	for _, name := range filenames {
		contentType := "image/jpeg"
		if strings.HasSuffix(name, ".mp4") {
			contentType = "video/mp4"
		}
		header := textproto.MIMEHeader{
			"Content-Disposition": {fmt.Sprintf(`form-data; name="files"; filename=%q`, name)},
			"Content-Type":        {contentType},
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte("content of " + name))
	}
	mw.Close()

	rr := e.do(t, http.MethodPost, "/api/admin/sideline", e.token, &buf, mw.FormDataContentType())
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeJSON(t, rr)
	id, _ := resp["id"].(string)
	if id == "" {
		t.Fatalf("upload response has no id: %s", rr.Body.String())
	}
	return id
}

func TestSendEmail(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing message",
			body:       `{"name":"Ada","email":"ada@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "All fields are required.",
		},
		{
			name:       "missing name",
			body:       `{"email":"ada@example.com","message":"hi"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "All fields are required.",
		},
		{
			name:       "invalid json",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := env.do(t, http.MethodPost, "/api/send-email", "", bytes.NewBufferString(tt.body), "application/json")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := decodeJSON(t, rr)["error"]; got != tt.wantError {
				t.Errorf("error = %v, want %q", got, tt.wantError)
			}
			if len(env.provider.Sent) != 0 {
				t.Errorf("provider was called for an invalid request")
			}
		})
	}
}

func TestSendEmailSuccess(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"Ada","email":"ada@example.com","message":"Love the gallery"}`

	rr := env.do(t, http.MethodPost, "/api/send-email", "", bytes.NewBufferString(body), "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeJSON(t, rr)
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}
	if resp["data"] == nil {
		t.Errorf("response has no data field: %s", rr.Body.String())
	}
	if len(env.provider.Sent) != 1 {
		t.Fatalf("provider sent %d messages, want 1", len(env.provider.Sent))
	}
	msg := env.provider.Sent[0]
	if msg.Name != "Ada" || msg.From != "ada@example.com" || msg.Message != "Love the gallery" {
		t.Errorf("provider got %+v", msg)
	}
}

func TestSendEmailProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.Err = fmt.Errorf("resend: 403 forbidden")
	body := `{"name":"Ada","email":"ada@example.com","message":"hi"}`

	rr := env.do(t, http.MethodPost, "/api/send-email", "", bytes.NewBufferString(body), "application/json")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	resp := decodeJSON(t, rr)
	if resp["error"] != "Failed to send email." {
		t.Errorf("error = %v", resp["error"])
	}
	if details, _ := resp["details"].(string); !strings.Contains(details, "403") {
		t.Errorf("details = %v, want the provider error", resp["details"])
	}
}

func TestRootAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/", "", nil, "")
	if rr.Code != http.StatusOK || rr.Body.String() != "Backend server is running!" {
		t.Errorf("GET / = %d %q", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/no/such/route", "", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if got := decodeJSON(t, rr)["error"]; got != "Not Found: GET /no/such/route" {
		t.Errorf("error = %v", got)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/login", "",
		bytes.NewBufferString(`{"email":"admin@example.com","password":"wrong"}`), "application/json")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/login", "",
		bytes.NewBufferString(fmt.Sprintf(`{"email":%q,"password":%q}`, testAdminEmail, testAdminPassword)), "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}
	if token, _ := decodeJSON(t, rr)["token"].(string); token == "" {
		t.Errorf("login response has no token")
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/admin/sideline", "", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestUploadListDelete(t *testing.T) {
	env := newTestEnv(t)
	id := env.uploadBatch(t, "Spring shoot", "a.jpg", "b.mp4")

	batch, err := env.store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("stored batch: %v", err)
	}
	if len(batch.Files) != 2 {
		t.Fatalf("stored %d files, want 2", len(batch.Files))
	}
	if batch.ThumbnailURL != batch.Files[0].URL {
		t.Errorf("thumbnail = %q, want first file URL %q", batch.ThumbnailURL, batch.Files[0].URL)
	}
	if batch.Files[0].MediaType != models.MediaImage || batch.Files[1].MediaType != models.MediaVideo {
		t.Errorf("media types = %v, %v", batch.Files[0].MediaType, batch.Files[1].MediaType)
	}
	if batch.OwnerID != testAdminEmail {
		t.Errorf("owner = %q, want %q", batch.OwnerID, testAdminEmail)
	}

	rr := env.do(t, http.MethodGet, "/api/sideline", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	if count := decodeJSON(t, rr)["count"]; count != float64(1) {
		t.Errorf("count = %v, want 1", count)
	}

	rr = env.do(t, http.MethodDelete, "/api/admin/sideline/"+id, env.token, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/sideline", "", nil, "")
	if count := decodeJSON(t, rr)["count"]; count != float64(0) {
		t.Errorf("count after delete = %v, want 0", count)
	}
}

func TestUploadRejectsEmptySelection(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "no files here")
	mw.Close()

	rr := env.do(t, http.MethodPost, "/api/admin/sideline", env.token, &buf, mw.FormDataContentType())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="files"; filename="notes.pdf"`},
		"Content-Type":        {"application/pdf"},
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("%PDF-1.4"))
	mw.Close()

	rr := env.do(t, http.MethodPost, "/api/admin/sideline", env.token, &buf, mw.FormDataContentType())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
	}
	if got, _ := decodeJSON(t, rr)["error"].(string); !strings.Contains(got, "unsupported content type") {
		t.Errorf("error = %q", got)
	}
}

func TestListEmptyReturnsEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/sideline", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("gallery list status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"batches":[]`) {
		t.Errorf("gallery body = %s, want empty batches array", rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/admin/sideline", env.token, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"batches":[]`) {
		t.Errorf("admin body = %s, want empty batches array", rr.Body.String())
	}
}

func TestListFiltersByDate(t *testing.T) {
	env := newTestEnv(t)
	env.uploadBatch(t, "today", "a.jpg")

	today := time.Now().Format(models.DateFormat)
	rr := env.do(t, http.MethodGet, "/api/sideline?date="+today, "", nil, "")
	if count := decodeJSON(t, rr)["count"]; count != float64(1) {
		t.Errorf("count for %s = %v, want 1", today, count)
	}

	rr = env.do(t, http.MethodGet, "/api/sideline?date=1999-01-01", "", nil, "")
	if count := decodeJSON(t, rr)["count"]; count != float64(0) {
		t.Errorf("count for non-matching date = %v, want 0", count)
	}
}

func TestViewClampsIndex(t *testing.T) {
	env := newTestEnv(t)
	id := env.uploadBatch(t, "", "a.jpg", "b.jpg", "c.jpg")

	rr := env.do(t, http.MethodGet, "/api/sideline/"+id+"/view?index=99", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("view status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeJSON(t, rr)
	if resp["index"] != float64(2) {
		t.Errorf("index = %v, want 2", resp["index"])
	}
	if resp["has_next"] != false || resp["has_prev"] != true {
		t.Errorf("has_next = %v, has_prev = %v", resp["has_next"], resp["has_prev"])
	}
	if resp["title"] != "Untitled" {
		t.Errorf("title = %v, want Untitled", resp["title"])
	}

	rr = env.do(t, http.MethodGet, "/api/sideline/missing/view", "", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing batch view status = %d, want 404", rr.Code)
	}
}

func TestDownloadStreamsOriginalFilename(t *testing.T) {
	env := newTestEnv(t)
	id := env.uploadBatch(t, "", "portrait.jpg", "reel.mp4")

	rr := env.do(t, http.MethodGet, "/api/sideline/"+id+"/download?index=1", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("download status = %d, body %s", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, `"reel.mp4"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rr.Body.String() != "content of reel.mp4" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestBulkDelete(t *testing.T) {
	env := newTestEnv(t)
	id1 := env.uploadBatch(t, "one", "a.jpg")
	id2 := env.uploadBatch(t, "two", "b.jpg")

	body := fmt.Sprintf(`{"ids":[%q,%q]}`, id1, id2)
	rr := env.do(t, http.MethodPost, "/api/admin/sideline/bulk-delete", env.token,
		bytes.NewBufferString(body), "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeJSON(t, rr)
	if resp["success"] != true || resp["deleted"] != float64(2) {
		t.Errorf("response = %v", resp)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	env := newTestEnv(t)
	id := env.uploadBatch(t, "survivor", "a.jpg")

	body := fmt.Sprintf(`{"ids":[%q,"missing"]}`, id)
	rr := env.do(t, http.MethodPost, "/api/admin/sideline/bulk-delete", env.token,
		bytes.NewBufferString(body), "application/json")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	resp := decodeJSON(t, rr)
	if resp["success"] != false || resp["deleted"] != float64(1) {
		t.Errorf("response = %v", resp)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.uploadBatch(t, "", "a.jpg", "b.jpg")

	rr := env.do(t, http.MethodGet, "/api/admin/status", env.token, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeJSON(t, rr)
	if resp["batches"] != float64(1) || resp["files"] != float64(2) {
		t.Errorf("batches = %v, files = %v", resp["batches"], resp["files"])
	}
}
