package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edugames-service/internal/domain"
	"edugames-service/internal/infra/memory"
)

func newTestService() *Service {
	return NewService(memory.NewUserStore(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %q, want %q", user.Role, domain.RoleUser)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}

	if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate Register: got %v, want ErrUserExists", err)
	}

	token, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("subject = %q, want %q", claims.Subject, user.ID)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "s3cret"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("unknown user: got %v, want ErrBadCredentials", err)
	}
}

func TestMiddleware(t *testing.T) {
	svc := newTestService()
	user, err := svc.Register(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id.Anonymous() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(id.UserID))
	}))

	t.Run("no header is anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("valid token resolves identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Body.String() != user.ID {
			t.Fatalf("body = %q, want user id %q", rec.Body.String(), user.ID)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewService(memory.NewUserStore(), "test-secret", time.Hour)
		expired.clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		staleToken, err := expired.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+staleToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
