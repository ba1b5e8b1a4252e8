package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ckdscreen/internal/logger"
	"ckdscreen/internal/models"
	"ckdscreen/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Audit event types recorded by the auth flows.
const (
	EventSignUp       = "SIGN_UP"
	EventSignIn       = "SIGN_IN"
	EventSignInFailed = "SIGN_IN_FAILED"
	EventLogout       = "LOGOUT"
)

// Domain errors for auth flows.
var (
	ErrEmptyUsername   = errors.New("username is empty")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// sessionRegistry is the slice of the session store the auth gate needs:
// it creates a session on sign-in and tears it down on logout.
type sessionRegistry interface {
	Start(userID int, username string) Session
	End(id string) bool
}

// AuthService composes the credential store and the password hasher into
// register/login semantics. It is the trust boundary for everything behind
// the bearer-token middleware.
type AuthService struct {
	users      repository.Users
	audit      repository.AuditRepo
	sessions   sessionRegistry
	log        *logger.Logger
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.Users, audit repository.AuditRepo, sessions sessionRegistry, log *logger.Logger, signingKey string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:      users,
		audit:      audit,
		sessions:   sessions,
		log:        log,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// Register hashes the password and creates a new user. It never signs the
// caller in; sign-up and sign-in are distinct steps. Usernames are
// case-sensitive byte strings; empty or whitespace-only credentials are
// rejected.
func (s *AuthService) Register(username, password string) (int, error) {
	if strings.TrimSpace(username) == "" {
		return 0, ErrEmptyUsername
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	id, err := s.users.Create(username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	s.recordEvent(EventSignUp, fmt.Sprintf("account created for %q", username), nil)
	return id, nil
}

// Claims defines JWT claims. SessionID binds the token to a server-side
// session so logout actually revokes it.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int    `json:"user_id"`
	SessionID string `json:"session_id"`
}

// GenerateToken validates credentials, starts a session and returns a JWT.
// Unknown username and wrong password surface as distinct errors here; the
// handler collapses both into one generic message so clients cannot
// enumerate usernames.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if u == nil {
		s.recordEvent(EventSignInFailed, fmt.Sprintf("sign-in failed for %q: unknown user", username), nil)
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		s.recordEvent(EventSignInFailed, fmt.Sprintf("sign-in failed for %q: password mismatch", username), nil)
		return "", ErrInvalidPassword
	}

	sess := s.sessions.Start(u.ID, u.Username)
	token, err := s.issueToken(u.ID, sess.ID)
	if err != nil {
		s.sessions.End(sess.ID)
		return "", err
	}
	s.recordEvent(EventSignIn, fmt.Sprintf("%q signed in", username), map[string]any{"user_id": u.ID})
	return token, nil
}

// ParseToken parses the JWT and returns its claims.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout ends the session; the next request with the old token gets 401.
func (s *AuthService) Logout(sessionID, username string) bool {
	ended := s.sessions.End(sessionID)
	if ended {
		s.recordEvent(EventLogout, fmt.Sprintf("%q signed out", username), nil)
	}
	return ended
}

// recordEvent appends to the audit log best-effort; auth outcomes never
// depend on the audit write, but a failing audit table is worth a warning.
func (s *AuthService) recordEvent(typ, msg string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	var m any
	if meta != nil {
		m = meta
	}
	err := s.audit.Append(context.Background(), models.AuditEvent{Type: typ, Message: msg, Metadata: m})
	if err != nil && s.log != nil {
		s.log.Warnw("audit_append_failed", "type", typ, "err", err)
	}
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash. A malformed stored hash is a
// non-match, never a panic.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT bound to a user and session
func (s *AuthService) issueToken(userID int, sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    userID,
		SessionID: sessionID,
	})
	return token.SignedString(s.signingKey)
}
