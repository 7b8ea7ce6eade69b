package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"card-service/internal/audit"
	"card-service/internal/auth"
	"card-service/internal/config"
	"card-service/internal/http/handler"
	memrepo "card-service/internal/repository/memory"
	"card-service/internal/service"
	memstore "card-service/internal/storage/memory"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEditSecret  = "k3Jx9QvL2mNp7RtY4wZa8BcD1eFgHiJo"
	testAdminSecret = "Zq8Wx2Ce4Rv6Tb1Yn3Um5Il7Ok9Pj0Hg"
	testAdminKey    = "operator-key"
)

var pngBody = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

type testServer struct {
	t       *testing.T
	handler stdhttp.Handler
	audit   *audit.Logger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        time.Second,
			WriteTimeout:       time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		App: config.AppConfig{
			CodeLength:         8,
			ImageMaxSize:       1024,
			AllowedImageTypes:  []string{"image/png", "image/jpeg"},
			PresignedURLExpiry: time.Hour,
		},
	}

	edit, err := auth.NewTokenService(auth.TokenServiceConfig{Secret: testEditSecret, Algorithm: "HS256", TTL: time.Hour, Type: auth.TokenTypeEditAccess})
	require.NoError(t, err)
	admin, err := auth.NewTokenService(auth.TokenServiceConfig{Secret: testAdminSecret, Algorithm: "HS256", TTL: time.Minute, Type: auth.TokenTypeAdminAccess})
	require.NoError(t, err)

	keyHash, err := auth.HashAdminKey(testAdminKey, bcrypt.MinCost)
	require.NoError(t, err)
	login, err := auth.NewAdminAuthenticator(keyHash, admin)
	require.NoError(t, err)

	m := metrics.New()
	auditLog := audit.NewLogger(audit.NewMemorySink(), nil)
	svc := service.New(service.Deps{
		Store:   memrepo.NewStore(),
		Objects: memstore.NewStore(time.Hour),
		Audit:   auditLog,
		Metrics: m,
	}, cfg.App, edit)

	srv := NewServer(&ServerDependencies{
		Config:       cfg,
		Services:     svc,
		Gate:         auth.NewGate(edit, admin),
		Admin:        login,
		Audit:        auditLog,
		Metrics:      m,
		EditTokenTTL: edit.TTL(),
	})

	return &testServer{t: t, handler: srv.Handler(), audit: auditLog}
}

type requestOption func(*stdhttp.Request)

func withBearer(token string) requestOption {
	return func(r *stdhttp.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(c *stdhttp.Cookie) requestOption {
	return func(r *stdhttp.Request) {
		r.AddCookie(c)
	}
}

func withHeader(key, value string) requestOption {
	return func(r *stdhttp.Request) {
		r.Header.Set(key, value)
	}
}

func (s *testServer) do(method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(path, contentType string, body []byte, fields map[string]string, opts ...requestOption) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="image.png"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(s.t, err)
	_, err = part.Write(body)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(stdhttp.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	rec := s.do(stdhttp.MethodPost, "/api/v1/admin/session", nil, withHeader("X-Admin-Key", testAdminKey))
	require.Equal(s.t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	var resp handler.AdminSessionResponse
	decode(s.t, rec, &resp)
	return resp.AccessToken
}

func (s *testServer) createCard(adminToken, name string) handler.CreateCardResponse {
	s.t.Helper()
	rec := s.do(stdhttp.MethodPost, "/api/v1/admin/cards", map[string]string{
		"name":        name,
		"title":       "Engineer",
		"description": "Builds things daily",
		"phone":       "77001234567",
		"email":       "ann@example.com",
		"city":        "Almaty",
	}, withBearer(adminToken))
	require.Equal(s.t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.CreateCardResponse
	decode(s.t, rec, &resp)
	return resp
}

func (s *testServer) redeem(code string, opts ...requestOption) (*httptest.ResponseRecorder, handler.TokenResponse) {
	s.t.Helper()
	rec := s.do(stdhttp.MethodPost, "/api/v1/codes/redeem", map[string]string{"code": code}, opts...)
	var resp handler.TokenResponse
	if rec.Code == stdhttp.StatusOK {
		decode(s.t, rec, &resp)
	}
	return rec, resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())

	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, kind, resp.Kind)
	assert.NotEmpty(t, resp.RequestID)
}

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *stdhttp.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", auth.CookieName)
	return nil
}

func TestServer_CardLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	created := s.createCard(admin, "Ann")
	require.NotEmpty(t, created.Code)
	assert.True(t, created.IsActive)
	assert.Empty(t, created.Socials)

	rec, redeemed := s.redeem(created.Code)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.ID, redeemed.CardID)
	assert.Equal(t, "bearer", redeemed.TokenType)
	assert.False(t, redeemed.Reused)

	cookie := authCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, stdhttp.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	assert.Equal(t, "Bearer "+redeemed.AccessToken, cookie.Value)

	rec = s.do(stdhttp.MethodGet, "/api/v1/codes/verify-token", nil, withCookie(cookie))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var verified handler.VerifyTokenResponse
	decode(t, rec, &verified)
	assert.True(t, verified.Valid)
	assert.Equal(t, created.ID, verified.CardID)
	assert.Equal(t, string(auth.TokenTypeEditAccess), verified.TokenType)
	assert.Greater(t, verified.ExpiresAt, time.Now().Unix())

	rec, again := s.redeem(created.Code, withCookie(cookie))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.True(t, again.Reused)
	assert.Equal(t, redeemed.AccessToken, again.AccessToken)

	path := fmt.Sprintf("/api/v1/cards/%d", created.ID)
	rec = s.do(stdhttp.MethodPatch, path, map[string]string{"city": "Astana"}, withCookie(cookie))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var patched handler.CardResponse
	decode(t, rec, &patched)
	assert.Equal(t, "Astana", patched.City)
	assert.Equal(t, "Ann", patched.Name)

	rec = s.do(stdhttp.MethodPost, "/api/v1/socials", map[string]string{
		"type": "telegram", "url": "https://t.me/ann", "label": "Telegram",
	}, withBearer(redeemed.AccessToken))
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	var visible handler.SocialResponse
	decode(t, rec, &visible)
	assert.Equal(t, 0, visible.OrderID)
	assert.True(t, visible.IsVisible)

	rec = s.do(stdhttp.MethodPost, "/api/v1/socials", map[string]string{
		"type": "custom", "url": "https://ann.example.com", "label": "Site",
	}, withBearer(redeemed.AccessToken))
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	var hidden handler.SocialResponse
	decode(t, rec, &hidden)
	assert.Equal(t, 1, hidden.OrderID)

	rec = s.do(stdhttp.MethodPatch, fmt.Sprintf("/api/v1/socials/%d", hidden.ID), map[string]bool{"is_visible": false}, withBearer(redeemed.AccessToken))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	rec = s.upload("/api/v1/assets/avatar", "image/png", pngBody, nil, withBearer(redeemed.AccessToken))
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	var avatar handler.AssetResponse
	decode(t, rec, &avatar)
	assert.Equal(t, "avatar", avatar.Kind)
	assert.Equal(t, int64(len(pngBody)), avatar.Size)
	assert.NotContains(t, rec.Body.String(), "storage_key")

	rec = s.upload("/api/v1/assets/logo", "image/png", pngBody, map[string]string{"social_id": fmt.Sprint(visible.ID)}, withBearer(redeemed.AccessToken))
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(stdhttp.MethodGet, path, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var public handler.CardResponse
	decode(t, rec, &public)
	assert.Equal(t, "Astana", public.City)
	require.NotNil(t, public.AvatarLink)
	require.Len(t, public.Socials, 1)
	assert.Equal(t, visible.ID, public.Socials[0].ID)
	assert.NotNil(t, public.Socials[0].AppIconLink)

	rec = s.do(stdhttp.MethodGet, "/api/v1/cards/me", nil, withCookie(cookie))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var me handler.CardResponse
	decode(t, rec, &me)
	assert.Len(t, me.Socials, 2)

	rec = s.do(stdhttp.MethodDelete, fmt.Sprintf("/api/v1/socials/%d", visible.ID), nil, withBearer(redeemed.AccessToken))
	assert.Equal(t, stdhttp.StatusNoContent, rec.Code)

	s.audit.Wait()
	rec = s.do(stdhttp.MethodGet, fmt.Sprintf("/api/v1/admin/cards/%d/audit?limit=10", created.ID), nil, withBearer(admin))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var events []handler.AuditEventResponse
	decode(t, rec, &events)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
		assert.NotEmpty(t, e.RequestID)
	}
	assert.ElementsMatch(t, []string{"card_created", "code_redeemed", "code_redeemed", "card_updated"}, types)
	assert.NotContains(t, rec.Body.String(), created.Code)

	rec = s.do(stdhttp.MethodDelete, fmt.Sprintf("/api/v1/admin/cards/%d", created.ID), nil, withBearer(admin))
	assert.Equal(t, stdhttp.StatusNoContent, rec.Code)

	assertError(t, s.do(stdhttp.MethodGet, path, nil), stdhttp.StatusNotFound, apperrors.KindNotFound)
}

func TestServer_RegenerateInvalidatesOldCode(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	created := s.createCard(admin, "Bolat")

	rec := s.do(stdhttp.MethodPost, "/api/v1/admin/codes/regenerate", map[string]int64{"card_id": created.ID}, withBearer(admin))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var regenerated handler.RegenerateCodeResponse
	decode(t, rec, &regenerated)
	assert.Equal(t, created.ID, regenerated.CardID)
	assert.NotEqual(t, created.Code, regenerated.Code)

	rec, _ = s.redeem(created.Code)
	assertError(t, rec, stdhttp.StatusNotFound, apperrors.KindNotFound)

	rec, redeemed := s.redeem(regenerated.Code)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, created.ID, redeemed.CardID)

	rec = s.do(stdhttp.MethodPost, "/api/v1/admin/codes/regenerate", map[string]int64{"card_id": 9999}, withBearer(admin))
	assertError(t, rec, stdhttp.StatusNotFound, apperrors.KindNotFound)
}

func TestServer_AccessControl(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	first := s.createCard(admin, "Ann")
	second := s.createCard(admin, "Dana")

	_, redeemed := s.redeem(first.Code)
	edit := redeemed.AccessToken

	tests := []struct {
		name   string
		rec    *httptest.ResponseRecorder
		status int
		kind   string
	}{
		{
			name:   "edit route without token",
			rec:    s.do(stdhttp.MethodGet, "/api/v1/cards/me", nil),
			status: stdhttp.StatusUnauthorized,
			kind:   apperrors.KindUnauthenticated,
		},
		{
			name:   "edit route with garbage token",
			rec:    s.do(stdhttp.MethodGet, "/api/v1/cards/me", nil, withBearer("not-a-jwt")),
			status: stdhttp.StatusForbidden,
			kind:   apperrors.KindInvalidCredential,
		},
		{
			name:   "patch another card",
			rec:    s.do(stdhttp.MethodPatch, fmt.Sprintf("/api/v1/cards/%d", second.ID), map[string]string{"city": "Astana"}, withBearer(edit)),
			status: stdhttp.StatusForbidden,
			kind:   apperrors.KindForbidden,
		},
		{
			name:   "edit token on admin route",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/admin/codes/regenerate", map[string]int64{"card_id": first.ID}, withBearer(edit)),
			status: stdhttp.StatusForbidden,
			kind:   apperrors.KindInvalidCredential,
		},
		{
			name:   "admin token on edit route",
			rec:    s.do(stdhttp.MethodGet, "/api/v1/cards/me", nil, withBearer(admin)),
			status: stdhttp.StatusForbidden,
			kind:   apperrors.KindInvalidCredential,
		},
		{
			name:   "admin route without token",
			rec:    s.do(stdhttp.MethodDelete, fmt.Sprintf("/api/v1/admin/cards/%d", first.ID), nil),
			status: stdhttp.StatusUnauthorized,
			kind:   apperrors.KindUnauthenticated,
		},
		{
			name:   "wrong admin key",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/admin/session", nil, withHeader("X-Admin-Key", "nope")),
			status: stdhttp.StatusForbidden,
			kind:   apperrors.KindInvalidCredential,
		},
		{
			name:   "missing admin key",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/admin/session", nil),
			status: stdhttp.StatusUnauthorized,
			kind:   apperrors.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, tt.rec, tt.status, tt.kind)
		})
	}
}

func TestServer_RequestValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	created := s.createCard(admin, "Ann")
	_, redeemed := s.redeem(created.Code)
	edit := withBearer(redeemed.AccessToken)
	path := fmt.Sprintf("/api/v1/cards/%d", created.ID)

	tests := []struct {
		name   string
		rec    *httptest.ResponseRecorder
		status int
		kind   string
	}{
		{
			name:   "unknown field",
			rec:    s.do(stdhttp.MethodPatch, path, map[string]any{"is_active": false}, edit),
			status: stdhttp.StatusBadRequest,
			kind:   apperrors.KindPayloadInvalid,
		},
		{
			name:   "trailing data",
			rec:    s.do(stdhttp.MethodPatch, path, `{"city":"Astana"}{}`, edit),
			status: stdhttp.StatusBadRequest,
			kind:   apperrors.KindPayloadInvalid,
		},
		{
			name:   "bad phone",
			rec:    s.do(stdhttp.MethodPatch, path, map[string]string{"phone": "87001234567"}, edit),
			status: stdhttp.StatusUnprocessableEntity,
			kind:   apperrors.KindValidation,
		},
		{
			name:   "bad social type",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/socials", map[string]string{"type": "myspace", "url": "https://x.example", "label": "x"}, edit),
			status: stdhttp.StatusUnprocessableEntity,
			kind:   apperrors.KindValidation,
		},
		{
			name:   "non numeric id",
			rec:    s.do(stdhttp.MethodGet, "/api/v1/cards/abc", nil),
			status: stdhttp.StatusUnprocessableEntity,
			kind:   apperrors.KindValidation,
		},
		{
			name:   "empty code",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/codes/redeem", map[string]string{"code": ""}),
			status: stdhttp.StatusUnprocessableEntity,
			kind:   apperrors.KindValidation,
		},
		{
			name:   "unknown code",
			rec:    s.do(stdhttp.MethodPost, "/api/v1/codes/redeem", map[string]string{"code": "ZZZZZZZZ"}),
			status: stdhttp.StatusNotFound,
			kind:   apperrors.KindNotFound,
		},
		{
			name:   "type mismatch",
			rec:    s.upload("/api/v1/assets/avatar", "image/jpeg", pngBody, nil, edit),
			status: stdhttp.StatusBadRequest,
			kind:   apperrors.KindPayloadInvalid,
		},
		{
			name:   "file too large",
			rec:    s.upload("/api/v1/assets/avatar", "image/png", append(pngBody, make([]byte, 2048)...), nil, edit),
			status: stdhttp.StatusRequestEntityTooLarge,
			kind:   apperrors.KindPayloadTooLarge,
		},
		{
			name:   "logo for missing link",
			rec:    s.upload("/api/v1/assets/logo", "image/png", pngBody, map[string]string{"social_id": "999"}, edit),
			status: stdhttp.StatusNotFound,
			kind:   apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, tt.rec, tt.status, tt.kind)
		})
	}
}

func TestServer_Operational(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(stdhttp.MethodGet, "/health", nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(stdhttp.MethodGet, "/api/v1/nope", nil)
	assertError(t, rec, stdhttp.StatusNotFound, apperrors.KindNotFound)

	rec = s.do(stdhttp.MethodGet, "/metrics", nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "card_service_http_requests_total")
}
