package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const CookieName = "railquiz_session"

const issuer = "railquiz"

type Options struct {
	TTL    time.Duration
	Secure bool // set the cookie's Secure flag
}

// Manager issues and verifies session cookies and binds requests to a Backend.
type Manager struct {
	key     []byte
	backend Backend
	opts    Options
}

// NewSecret draws a fresh process-lifetime secret. Sessions signed with it
// stop verifying once the process exits.
func NewSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}
	return b, nil
}

// NewManager derives the cookie signing key from secret.
func NewManager(secret []byte, backend Backend, opts Options) (*Manager, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: secret too short")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte("railquiz session cookie v1")), key); err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return &Manager{key: key, backend: backend, opts: opts}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

func (m *Manager) issue(sid string) (string, error) {
	now := time.Now()
	rc := jwt.RegisteredClaims{
		Subject:  sid,
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if m.opts.TTL > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(m.opts.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{rc}).SignedString(m.key)
}

func (m *Manager) parse(tok string) (string, error) {
	c := &claims{}
	t, err := jwt.ParseWithClaims(tok, c, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return "", err
	}
	if !t.Valid || c.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return c.Subject, nil
}

// Middleware attaches a session id to every request, minting a new one and
// setting the cookie when the client has none or its cookie does not verify.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			if s, err := m.parse(c.Value); err == nil {
				sid = s
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			tok, err := m.issue(sid)
			if err != nil {
				http.Error(w, "session", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    tok,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

// StateFor returns the key-value state of the session on ctx.
func (m *Manager) StateFor(ctx context.Context) (State, error) {
	sid := IDFromContext(ctx)
	if sid == "" {
		return nil, ErrNoSession
	}
	return Bind(m.backend, sid, m.opts.TTL), nil
}
