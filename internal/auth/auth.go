// Package auth verifies bearer tokens and threads the authenticated user
// through the request context. Verification is behind the Verifier interface
// so handlers can be tested without a live identity provider.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	authKey   contextKey = "auth"
)

var ErrInvalidToken = errors.New("invalid token")

// Info contains authenticated user information
type Info struct {
	UserID string
	Email  string
	Name   string
}

// Verifier turns a bearer token into an authenticated identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Info, error)
}

// FirebaseVerifier validates Firebase ID tokens
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase app and its auth client.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	conf := &firebase.Config{ProjectID: projectID}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Info, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Info{}, ErrInvalidToken
	}
	info := Info{UserID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		info.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		info.Name = name
	}
	return info, nil
}

// InsecureVerifier treats the bearer token itself as the user ID. Local
// development only; never wire it in production.
type InsecureVerifier struct{}

func (InsecureVerifier) Verify(_ context.Context, token string) (Info, error) {
	if strings.TrimSpace(token) == "" {
		return Info{}, ErrInvalidToken
	}
	return Info{UserID: token}, nil
}

// Middleware enforces authentication on wrapped handlers
type Middleware struct {
	verifier Verifier
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(verifier Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireAuth middleware that requires authentication
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		info, err := m.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authKey, info)
		ctx = context.WithValue(ctx, userIDKey, info.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// GetInfo retrieves auth info from the request context
func GetInfo(ctx context.Context) (Info, bool) {
	if info, ok := ctx.Value(authKey).(Info); ok {
		return info, true
	}
	return Info{}, false
}

// WithUser returns a context carrying the given identity. Tests use it to
// call handlers directly without the middleware.
func WithUser(ctx context.Context, info Info) context.Context {
	ctx = context.WithValue(ctx, authKey, info)
	return context.WithValue(ctx, userIDKey, info.UserID)
}
