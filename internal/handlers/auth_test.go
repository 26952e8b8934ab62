package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spendwise/internal/repository"
	"spendwise/internal/service"
)

func TestAuthHandlers_RegisterAndLogin(t *testing.T) {
	auth := &mockAuth{signUpID: 42, signUpToken: "tok-up", signInID: 42, signInToken: "tok-in"}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// register success
	body := bytes.NewBufferString(`{"email":"a@x.com","password":"secret1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["user_id"].(float64)) != 42 || m["token"] != "tok-up" {
		t.Fatalf("unexpected register response: %v", m)
	}
	if auth.lastSignUpEmail != "a@x.com" {
		t.Fatalf("expected email forwarded, got %q", auth.lastSignUpEmail)
	}

	// login success
	body = bytes.NewBufferString(`{"email":"a@x.com","password":"secret1"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok-in" {
		t.Fatalf("expected token tok-in, got %v", m["token"])
	}

	// missing fields → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestAuthHandlers_RegisterErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "duplicate email", err: repository.ErrEmailTaken, wantCode: http.StatusConflict},
		{name: "invalid email", err: service.ErrInvalidEmail, wantCode: http.StatusBadRequest},
		{name: "weak password", err: service.ErrWeakPassword, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{signUpErr: tt.err}}
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/register",
				bytes.NewBufferString(`{"email":"a@x.com","password":"secret1"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_LoginInvalidCredentials(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{signInErr: service.ErrInvalidCredentials}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"a@x.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != "invalid email or password" {
		t.Fatalf("expected neutral error message, got %q", out.Error)
	}
}

func TestAuthHandlers_LogoutIsStateless(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["ok"] != true {
		t.Fatalf("expected ok:true, got %v", m)
	}
}
