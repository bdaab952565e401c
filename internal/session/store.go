// Package session holds the authenticated user state for a running client
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Compile-time interface check
var _ interfaces.TokenStore = (*Store)(nil)

// State is the lifecycle state of the session
type State int

const (
	StateUnknown State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Store owns the process-wide session: the current user, the token pair and
// their durable copy on disk. Exactly one Store exists per running client; it
// is passed to the gateway and reconcilers as an explicit dependency.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger *common.Logger
	state  State
	sess   models.Session
}

// NewStore creates a session store persisting to path.
func NewStore(path string, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{
		path:   path,
		logger: logger,
		state:  StateUnknown,
	}
}

// Load reads the persisted session. A missing file is not an error: the store
// simply becomes Anonymous. With an access token present the store enters
// Authenticated optimistically using the last cached user; callers should
// follow up with RefreshProfile.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.state = StateAnonymous
		return nil
	}
	if err != nil {
		s.state = StateAnonymous
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt session file: treat as signed out rather than failing startup.
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Discarding unreadable session file")
		s.state = StateAnonymous
		return nil
	}

	s.sess = sess
	if sess.AccessToken != "" {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
	return nil
}

// RefreshProfile fetches the current profile and updates the cached user.
// A failed fetch keeps the stale cached user and the Authenticated state:
// only the gateway's failed token refresh demotes the session.
func (s *Store) RefreshProfile(ctx context.Context, auth interfaces.AuthAPI) {
	if !s.IsAuthenticated() {
		return
	}

	user, err := auth.Profile(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Profile refresh failed; keeping cached user")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return // demoted while the fetch was in flight
	}
	s.sess.User = user
	if err := s.persistLocked(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist refreshed profile")
	}
}

// Login exchanges credentials for a session and transitions to Authenticated.
func (s *Store) Login(ctx context.Context, auth interfaces.AuthAPI, username, password string) (*models.User, error) {
	user, tokens, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.SetSession(user, tokens); err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", user.Username).Msg("Signed in")
	return user, nil
}

// Register creates an account and transitions to Authenticated.
func (s *Store) Register(ctx context.Context, auth interfaces.AuthAPI, req *models.RegisterRequest) (*models.User, error) {
	user, tokens, err := auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.SetSession(user, tokens); err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", user.Username).Msg("Account created")
	return user, nil
}

// Logout invalidates the refresh token server-side on a best-effort basis and
// unconditionally clears local state.
func (s *Store) Logout(ctx context.Context, auth interfaces.AuthAPI) error {
	if rt := s.RefreshToken(); rt != "" {
		if err := auth.Logout(ctx, rt); err != nil {
			s.logger.Debug().Err(err).Msg("Server logout failed; clearing local session anyway")
		}
	}
	return s.Clear()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a signed-in session is active.
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// User returns the cached user, or nil when signed out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.User
}

// AccessToken returns the current access token, or empty when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.AccessToken
}

// RefreshToken returns the current refresh token, or empty when signed out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.RefreshToken
}

// SetSession stores a full token pair and user atomically and transitions to
// Authenticated.
func (s *Store) SetSession(user *models.User, tokens *models.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = models.Session{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		User:         user,
	}
	s.state = StateAuthenticated
	return s.persistLocked()
}

// SetAccessToken replaces the access token after a successful refresh.
func (s *Store) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.AccessToken = token
	return s.persistLocked()
}

// Clear removes all session state, in memory and on disk, and transitions to
// Anonymous.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = models.Session{}
	s.state = StateAnonymous

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// AccessTokenExpiresAt returns the exp claim of the access token. The token is
// parsed without signature verification: the client only inspects expiry, the
// server remains the authority on validity.
func (s *Store) AccessTokenExpiresAt() (time.Time, bool) {
	tok := s.AccessToken()
	if tok == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// AccessTokenExpired reports whether the access token carries a past exp claim.
func (s *Store) AccessTokenExpired() bool {
	exp, ok := s.AccessTokenExpiresAt()
	if !ok {
		return false
	}
	return time.Now().After(exp)
}

// persistLocked writes the session file atomically (temp file + rename).
// Callers must hold s.mu.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(&s.sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
