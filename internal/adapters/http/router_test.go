package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/algonex/license-portal/internal/adapters/http"
	"github.com/algonex/license-portal/internal/adapters/memory"
	"github.com/algonex/license-portal/internal/adapters/security"
	"github.com/algonex/license-portal/internal/application"
)

const adminPassword = "correct-horse-battery"

type testServer struct {
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	adminHash, err := hasher.Hash(adminPassword)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	signer, err := security.NewAdminTokenSigner("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("init signer: %v", err)
	}

	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			AdminPasswordHash:    adminHash,
			FailedLoginThreshold: 5,
			LockoutDuration:      15 * time.Minute,
		},
		Licenses:    repos.Licenses,
		Clients:     repos.Clients,
		Sessions:    repos.Sessions,
		Lockouts:    memory.NewLockoutStore(),
		Hasher:      hasher,
		AdminTokens: signer,
	})
	handler := httpadapter.NewHandler(svc, httpadapter.Options{})
	return &testServer{router: httpadapter.NewRouter(handler)}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/admin/auth/login", "", map[string]any{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	token, _ := body["sessionToken"].(string)
	if token == "" {
		t.Fatalf("missing sessionToken in %v", body)
	}
	return token
}

func (s *testServer) clientToken(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/client/auth/signup", "", map[string]any{
		"name":     "Trader",
		"email":    email,
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body = %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/api/client/auth/login", "", map[string]any{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("client login status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	token, _ := body["sessionToken"].(string)
	if token == "" {
		t.Fatalf("missing sessionToken in %v", body)
	}
	return token
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/licenses/list"},
		{http.MethodPost, "/api/admin/licenses/create"},
		{http.MethodGet, "/api/admin/licenses/pending"},
		{http.MethodDelete, "/api/admin/licenses/delete?licenseKey=K"},
	} {
		rec := s.do(t, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", route.method, route.path, rec.Code)
		}
		body := decode(t, rec)
		if body["error"] != "Unauthorized" {
			t.Fatalf("%s %s: error = %v", route.method, route.path, body["error"])
		}
	}
}

func TestAdminLoginEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/admin/auth/login", "", map[string]any{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["success"] != true || body["sessionToken"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || !sessionCookie.HttpOnly {
		t.Fatalf("expected HttpOnly admin_session cookie, got %+v", sessionCookie)
	}

	rec = s.do(t, http.MethodPost, "/api/admin/auth/login", "", map[string]any{"password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}

	// Cookie works for protected routes, not just the bearer header.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/verify", nil)
	req.AddCookie(sessionCookie)
	cookieRec := httptest.NewRecorder()
	s.router.ServeHTTP(cookieRec, req)
	if cookieRec.Code != http.StatusOK {
		t.Fatalf("cookie auth status = %d", cookieRec.Code)
	}
	if decode(t, cookieRec)["authenticated"] != true {
		t.Fatalf("expected authenticated:true")
	}
}

func TestLicenseAdminFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.adminToken(t)

	create := map[string]any{
		"licenseKey":    "KEY-HTTP-1",
		"accountId":     12345,
		"accountServer": "Broker-Live01",
		"hardwareId":    "HW-HTTP",
		"ea_name":       "TrendFollower",
		"expiryDate":    "2030-06-30",
	}
	rec := s.do(t, http.MethodPost, "/api/admin/licenses/create", token, create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Fatalf("create body: %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["account_id"] != "12345" {
		t.Fatalf("numeric accountId must round-trip as string, got %v", data["account_id"])
	}

	// Same key again.
	rec = s.do(t, http.MethodPost, "/api/admin/licenses/create", token, create)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d", rec.Code)
	}

	// Same binding under another key.
	conflicting := map[string]any{
		"licenseKey":    "KEY-HTTP-2",
		"accountId":     "12345",
		"accountServer": "Broker-Live01",
		"hardwareId":    "HW-HTTP",
		"ea_name":       "TrendFollower",
		"expiryDate":    "2030-06-30",
	}
	rec = s.do(t, http.MethodPost, "/api/admin/licenses/create", token, conflicting)
	if rec.Code != http.StatusConflict {
		t.Fatalf("binding conflict status = %d", rec.Code)
	}
	body = decode(t, rec)
	if body["existingLicenseKey"] != "KEY-HTTP-1" {
		t.Fatalf("conflict body missing existing key: %v", body)
	}

	rec = s.do(t, http.MethodGet, "/api/admin/licenses/list", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	body = decode(t, rec)
	if rows, ok := body["data"].([]any); !ok || len(rows) != 1 {
		t.Fatalf("list body: %v", body)
	}

	rec = s.do(t, http.MethodDelete, "/api/admin/licenses/delete?licenseKey=KEY-HTTP-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/api/admin/licenses/delete?licenseKey=KEY-HTTP-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat delete status = %d, delete must be idempotent", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/api/admin/licenses/delete", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete without key status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/admin/licenses/create", token, map[string]any{"licenseKey": "ONLY-KEY"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid payload status = %d", rec.Code)
	}
	body = decode(t, rec)
	if body["error"] != "Validation error" {
		t.Fatalf("validation body: %v", body)
	}
}

func TestClientRequestAndApprovalFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	clientToken := s.clientToken(t, "flow@example.com")
	adminToken := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/client/license/request", clientToken, map[string]any{
		"accountId":     "9000",
		"accountServer": "Broker-Demo",
		"ea_name":       "Scalper",
		"hardwareId":    "HW-FLOW",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("request status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	licenseKey, _ := body["licenseKey"].(string)
	if !strings.HasPrefix(licenseKey, "ALGO-") {
		t.Fatalf("licenseKey = %q", licenseKey)
	}

	rec = s.do(t, http.MethodGet, "/api/admin/licenses/pending", adminToken, nil)
	body = decode(t, rec)
	if body["count"] != float64(1) {
		t.Fatalf("pending count = %v", body["count"])
	}

	rec = s.do(t, http.MethodPost, "/api/admin/licenses/approve", adminToken, map[string]any{
		"licenseKey": licenseKey,
		"expiryDate": "2031-12-31",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/client/license/my-licenses", clientToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("my-licenses status = %d", rec.Code)
	}
	body = decode(t, rec)
	rows, _ := body["licenses"].([]any)
	if len(rows) != 1 {
		t.Fatalf("licenses = %v", body["licenses"])
	}
	row, _ := rows[0].(map[string]any)
	if row["status"] != "active" || row["expiry_date"] != "2031-12-31" {
		t.Fatalf("approved license row: %v", row)
	}

	// The now-active license validates.
	rec = s.do(t, http.MethodPost, "/api/license/validate", "", map[string]any{
		"licenseKey": licenseKey,
		"accountId":  9000,
		"hardwareId": "HW-FLOW",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d body = %s", rec.Code, rec.Body.String())
	}
	body = decode(t, rec)
	if body["status"] != "ok" || body["expiry"] != "2031-12-31" {
		t.Fatalf("validate body: %v", body)
	}
	if _, leaked := body["ea_name"]; leaked {
		t.Fatalf("validate response must not leak record fields")
	}
}

func TestRejectFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	clientToken := s.clientToken(t, "reject@example.com")
	adminToken := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/client/license/request", clientToken, map[string]any{
		"accountId":     "9100",
		"accountServer": "Broker-Demo",
		"ea_name":       "Scalper",
		"hardwareId":    "HW-REJECT",
	})
	body := decode(t, rec)
	licenseKey, _ := body["licenseKey"].(string)

	rec = s.do(t, http.MethodPost, "/api/admin/licenses/reject", adminToken, map[string]any{"licenseKey": licenseKey})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/admin/licenses/reject", adminToken, map[string]any{"licenseKey": licenseKey})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat reject status = %d", rec.Code)
	}
}

func TestValidateEndpointFailures(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/admin/licenses/create", token, map[string]any{
		"licenseKey":    "KEY-EXPIRED",
		"accountId":     "1",
		"accountServer": "S",
		"hardwareId":    "HW-1",
		"ea_name":       "EA",
		"expiryDate":    "2020-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed create status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/license/validate", "", map[string]any{
		"licenseKey": "KEY-EXPIRED",
		"accountId":  "1",
		"hardwareId": "HW-1",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expired validate status = %d", rec.Code)
	}
	if decode(t, rec)["status"] != "expired" {
		t.Fatalf("expected expired status")
	}

	rec = s.do(t, http.MethodPost, "/api/license/validate", "", map[string]any{
		"licenseKey": "KEY-EXPIRED",
		"accountId":  "1",
		"hardwareId": "HW-WRONG",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("mismatch validate status = %d", rec.Code)
	}
	if decode(t, rec)["status"] != "invalid" {
		t.Fatalf("expected invalid status")
	}
}

func TestCORSAndMethodHandling(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/licenses/list", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://portal.example.com" {
		t.Fatalf("origin not echoed: %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("credentials header missing")
	}

	rec2 := s.do(t, http.MethodGet, "/api/license/validate", "", nil)
	if rec2.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method status = %d", rec2.Code)
	}
	if decode(t, rec2)["error"] != "Method not allowed" {
		t.Fatalf("405 body: %s", rec2.Body.String())
	}

	rec3 := s.do(t, http.MethodGet, "/api/nothing/here", "", nil)
	if rec3.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", rec3.Code)
	}
	if decode(t, rec3)["error"] != "Not found" {
		t.Fatalf("404 body: %s", rec3.Body.String())
	}
}

func TestClientSignupFailures(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/client/auth/signup", "", map[string]any{
		"name":     "Trader",
		"email":    "bad-email",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email signup status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/client/auth/signup", "", map[string]any{
		"name":     "Trader",
		"email":    "dup@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/client/auth/signup", "", map[string]any{
		"name":     "Trader",
		"email":    "dup@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
}
