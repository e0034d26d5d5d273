// Package auth verifies OIDC ID tokens presented as bearer credentials and
// binds the verified subject to the request's session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/chateval/pkg/handlers"
	"github.com/JaimeStill/chateval/pkg/lifecycle"
	"github.com/JaimeStill/chateval/pkg/middleware"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrNotReady     = errors.New("identity provider not ready")
)

// Claims are the identity fields read from a verified token.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type claimsKey struct{}

// ClaimsFrom returns the verified claims stored in ctx, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// System verifies bearer tokens for incoming requests.
type System interface {
	// Start registers a startup hook that performs provider discovery.
	Start(lc *lifecycle.Coordinator) error
	// Middleware rejects requests without a valid token and stores the claims and
	// session id in the request context.
	Middleware() func(http.Handler) http.Handler
	Ready() bool
}

type verifier struct {
	cfg      Config
	verifier atomic.Pointer[oidc.IDTokenVerifier]
	logger   *slog.Logger
}

// New creates an auth system. A disabled config yields a passthrough system.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled {
		return disabled{}
	}
	return &verifier{
		cfg:    *cfg,
		logger: logger.With("system", "auth"),
	}
}

// NewWithVerifier creates an auth system around an existing verifier, skipping discovery.
func NewWithVerifier(v *oidc.IDTokenVerifier, logger *slog.Logger) System {
	s := &verifier{logger: logger.With("system", "auth")}
	s.verifier.Store(v)
	return s
}

func (s *verifier) Start(lc *lifecycle.Coordinator) error {
	if s.verifier.Load() != nil {
		return nil
	}

	s.logger.Info("starting oidc discovery", "issuer", s.cfg.Issuer)

	lc.OnStartup("auth", func(ctx context.Context) error {
		provider, err := oidc.NewProvider(ctx, s.cfg.Issuer)
		if err != nil {
			return fmt.Errorf("oidc discovery: %w", err)
		}
		s.verifier.Store(provider.Verifier(&oidc.Config{ClientID: s.cfg.ClientID}))
		s.logger.Info("oidc provider ready", "issuer", s.cfg.Issuer)
		return nil
	})

	return nil
}

func (s *verifier) Ready() bool {
	return s.verifier.Load() != nil
}

func (s *verifier) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := s.verifier.Load()
			if v == nil {
				handlers.RespondError(w, s.logger, http.StatusServiceUnavailable, ErrNotReady)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, s.logger, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			token, err := v.Verify(r.Context(), raw)
			if err != nil {
				s.logger.Debug("token rejected", "error", err)
				handlers.RespondError(w, s.logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			claims := &Claims{}
			if err := token.Claims(claims); err != nil {
				handlers.RespondError(w, s.logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}
			claims.Subject = token.Subject

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = middleware.WithSessionID(ctx, token.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type disabled struct{}

func (disabled) Start(*lifecycle.Coordinator) error { return nil }

func (disabled) Ready() bool { return true }

func (disabled) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}
