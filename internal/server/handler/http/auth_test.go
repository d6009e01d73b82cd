package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/models"
	"github.com/camwarden/camwarden/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerUser *models.PublicUser
	registerErr  error
	loginUser    *models.PublicUser
	loginToken   string
	loginErr     error
}

func (f *fakeAuthService) Register(ctx context.Context, username, password string) (*models.PublicUser, error) {
	return f.registerUser, f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*models.PublicUser, string, error) {
	return f.loginUser, f.loginToken, f.loginErr
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "username taken",
			body:           `{"username":"bob","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: &service.FieldError{Field: "username", Message: "Username already exists"}},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Username already exists",
		},
		{
			name:           "short password",
			body:           `{"username":"bob","password":"x"}`,
			service:        &fakeAuthService{registerErr: &service.FieldError{Field: "password", Message: "Password must be at least 6 characters long"}},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "password",
		},
		{
			name:           "internal error",
			body:           `{"username":"bob","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "An error occurred during registration",
		},
		{
			name:           "success",
			body:           `{"username":"bob","password":"secret1"}`,
			service:        &fakeAuthService{registerUser: &models.PublicUser{ID: "u1", Username: "bob"}},
			expectedCode:   http.StatusCreated,
			expectedSubstr: "Registration successful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Register_NeverLeaksHash(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewBufferString(`{"username":"bob","password":"secret1"}`))
	h := &AuthHandler{
		AuthService: &fakeAuthService{registerUser: &models.PublicUser{ID: "u1", Username: "bob"}},
		Log:         zap.NewNop(),
	}
	h.Register(rec, req)

	var body struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if len(body.User) != 2 {
		t.Errorf("user payload = %v; want only id and username", body.User)
	}
}

func TestAuthHandler_Login_FailuresAreByteIdentical(t *testing.T) {
	// Wrong password and unknown username reach the handler as the same
	// sentinel; both responses must be byte-identical.
	h := &AuthHandler{
		AuthService: &fakeAuthService{loginErr: service.ErrInvalidCredentials},
		Log:         zap.NewNop(),
	}

	var bodies []string
	var codes []int
	for _, reqBody := range []string{
		`{"username":"alice","password":"wrongpassword"}`,
		`{"username":"ghost","password":"rightpassword"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(reqBody))
		h.Login(rec, req)
		bodies = append(bodies, rec.Body.String())
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusUnauthorized || codes[0] != codes[1] {
		t.Errorf("codes = %v; want identical 401s", codes)
	}
	if bodies[0] != bodies[1] {
		t.Errorf("bodies differ:\n%q\n%q", bodies[0], bodies[1])
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{"username":"bob","password":"secret1"}`))
	h := &AuthHandler{
		AuthService: &fakeAuthService{
			loginUser:  &models.PublicUser{ID: "u1", Username: "bob"},
			loginToken: "signed-token",
		},
		Log: zap.NewNop(),
	}
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Message string            `json:"message"`
		Token   string            `json:"token"`
		User    models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body.Token != "signed-token" || body.User.ID != "u1" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Login_MissingField(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{"username":"bob"}`))
	h := &AuthHandler{
		AuthService: &fakeAuthService{loginErr: &service.FieldError{Field: "password", Message: "Username and password are required"}},
		Log:         zap.NewNop(),
	}
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"field":"password"`)) {
		t.Errorf("expected field marker in body, got %q", rec.Body.String())
	}
}
