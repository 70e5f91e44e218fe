package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeVerifier struct {
	tokens map[string]Info
}

func (f fakeVerifier) Verify(_ context.Context, token string) (Info, error) {
	info, ok := f.tokens[token]
	if !ok {
		return Info{}, ErrInvalidToken
	}
	return info, nil
}

func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{tokens: map[string]Info{
		"good-token": {UserID: "alice", Email: "alice@example.com"},
	}}
	m := NewMiddleware(verifier)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			wantStatus: http.StatusOK,
			wantUser:   "alice",
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic good-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no token after scheme",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer bad-token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUser != "" && gotUser != tt.wantUser {
				t.Fatalf("user = %q, want %q", gotUser, tt.wantUser)
			}
		})
	}
}

func TestInsecureVerifier(t *testing.T) {
	v := InsecureVerifier{}

	info, err := v.Verify(context.Background(), "dev-user")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if info.UserID != "dev-user" {
		t.Fatalf("UserID = %q", info.UserID)
	}

	if _, err := v.Verify(context.Background(), "   "); err == nil {
		t.Fatal("blank token accepted")
	}
}

func TestContextHelpers(t *testing.T) {
	if _, ok := GetUserID(context.Background()); ok {
		t.Fatal("GetUserID on empty context should report missing")
	}
	if _, ok := GetInfo(context.Background()); ok {
		t.Fatal("GetInfo on empty context should report missing")
	}

	ctx := WithUser(context.Background(), Info{UserID: "bob", Email: "bob@example.com"})
	uid, ok := GetUserID(ctx)
	if !ok || uid != "bob" {
		t.Fatalf("GetUserID = %q, %v", uid, ok)
	}
	info, ok := GetInfo(ctx)
	if !ok || info.Email != "bob@example.com" {
		t.Fatalf("GetInfo = %+v, %v", info, ok)
	}
}
