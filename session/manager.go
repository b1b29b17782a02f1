package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	flixerrors "github.com/flixreview/go-flixreview-client/internal/errors"
	"github.com/flixreview/go-flixreview-client/tokens"
	"github.com/flixreview/go-flixreview-client/users"
)

// Deps holds all dependencies for the Manager
type Deps struct {
	API       AuthAPI      // Account endpoints
	Tokens    tokens.Store // Persisted token pair
	Navigator Navigator    // Navigation side effects
}

// Manager owns the client-side session: the current user, the loading flag,
// and the coordination between the token store and the account endpoints.
// One Manager is constructed per process and injected into whatever needs
// it; there is no ambient singleton.
//
// State-mutating calls are not mutually exclusive: if two run concurrently
// the last to resolve wins. Preventing the double submit is the UI's job.
type Manager struct {
	deps    Deps
	log     zerolog.Logger
	nowTime func() time.Time

	mu          sync.RWMutex
	currentUser *users.User
	isLoading   bool

	restoreOnce sync.Once
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for swallowed background failures.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// New initializes a Manager with required dependencies. The session starts
// in the loading state until Restore resolves it.
func New(deps Deps, options ...Option) (*Manager, error) {
	if deps.API == nil {
		return nil, errors.New("[session.New] API is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[session.New] Tokens store is required")
	}
	if deps.Navigator == nil {
		deps.Navigator = NopNavigator{}
	}

	m := &Manager{
		deps:      deps,
		log:       log.Logger,
		nowTime:   time.Now,
		isLoading: true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *users.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentUser
}

// IsAuthenticated reports whether a user is present.
func (m *Manager) IsAuthenticated() bool {
	return m.CurrentUser() != nil
}

// IsLoading reports whether the initial restore is still pending.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isLoading
}

// Restore resolves the session from the stored token pair. It runs exactly
// once per Manager: no stored pair leaves the session unauthenticated; a
// stored pair that fails the current-user fetch — expired token, network
// error, anything — clears both tokens and the user together rather than
// leaving a dangling pair to be silently retried. The loading flag drops on
// every path.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		defer m.setLoading(false)

		pair, err := m.deps.Tokens.Load()
		if err != nil {
			return
		}
		if pair.Expired(m.nowTime()) {
			m.log.Debug().Time("expired_at", pair.AccessExpiresAt()).Msg("Stored access token already expired")
		}

		user, err := m.deps.API.CurrentUser(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("Session restore failed, clearing stored tokens")
			m.clearSession()
			return
		}
		m.setUser(user)
	})
}

// Login authenticates, stores the returned pair, fetches the full user
// record (the login response is token-only), and navigates to the movie
// browse destination. On failure the error propagates unchanged and no state
// is mutated.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, err := m.deps.API.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := m.deps.Tokens.Save(pair); err != nil {
		return errors.Wrap(err, "[Manager.Login] save token pair")
	}

	user, err := m.deps.API.CurrentUser(ctx)
	if err != nil {
		// Never keep a pair the session cannot vouch for.
		m.clearSession()
		return err
	}

	m.setUser(user)
	m.deps.Navigator.NavigateTo(RouteMovies)
	return nil
}

// Register creates the account then performs the implicit login with the
// same credentials. A failure in either step rejects the whole call.
func (m *Manager) Register(ctx context.Context, data users.RegisterData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if _, err := m.deps.API.Register(ctx, data); err != nil {
		return err
	}
	return m.Login(ctx, data.Email, data.Password)
}

// Logout revokes the refresh token server-side on a best-effort basis; the
// local cleanup — clear user, clear tokens, navigate to login — runs on
// every exit path, remote failure included.
func (m *Manager) Logout(ctx context.Context) {
	defer func() {
		m.clearSession()
		m.deps.Navigator.NavigateTo(RouteLogin)
	}()

	pair, err := m.deps.Tokens.Load()
	if err != nil {
		return
	}
	if err := m.deps.API.Logout(ctx, pair.Refresh); err != nil {
		m.log.Warn().Err(err).Msg("Remote logout failed, clearing local session anyway")
	}
}

// UpdateProfile applies a partial change and replaces the current user with
// the server's representation; the server is authoritative for derived
// fields like the picture URL.
func (m *Manager) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error) {
	if !m.IsAuthenticated() {
		return nil, flixerrors.ErrNotAuthenticated
	}
	user, err := m.deps.API.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	m.setUser(user)
	return user, nil
}

// UpdateProfilePicture uploads a new avatar and replaces the current user
// with the server's representation.
func (m *Manager) UpdateProfilePicture(ctx context.Context, filename string, file io.Reader) (*users.User, error) {
	if !m.IsAuthenticated() {
		return nil, flixerrors.ErrNotAuthenticated
	}
	user, err := m.deps.API.UpdateProfilePicture(ctx, filename, file)
	if err != nil {
		return nil, err
	}
	m.setUser(user)
	return user, nil
}

// RefreshUser silently re-fetches the current user. Failure is logged and
// swallowed: unlike Restore, a background refresh is never fatal to the
// session.
func (m *Manager) RefreshUser(ctx context.Context) {
	user, err := m.deps.API.CurrentUser(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to refresh user")
		return
	}
	m.setUser(user)
}

// RefreshTokens exchanges the stored refresh token for a fresh pair. When
// the refresh endpoint rotates only the access token, the stored refresh
// token is carried over.
func (m *Manager) RefreshTokens(ctx context.Context) error {
	pair, err := m.deps.Tokens.Load()
	if err != nil {
		return errors.Wrap(err, "[Manager.RefreshTokens] no session to refresh")
	}
	if pair.Refresh == "" {
		return flixerrors.ErrInvalidRefreshToken
	}

	fresh, err := m.deps.API.RefreshToken(ctx, pair.Refresh)
	if err != nil {
		return err
	}
	if fresh.Refresh == "" {
		fresh.Refresh = pair.Refresh
	}
	if err := m.deps.Tokens.Save(fresh); err != nil {
		return errors.Wrap(err, "[Manager.RefreshTokens] save refreshed pair")
	}
	return nil
}

// ChangePassword validates locally then rotates the password server-side.
func (m *Manager) ChangePassword(ctx context.Context, change users.PasswordChange) error {
	if !m.IsAuthenticated() {
		return flixerrors.ErrNotAuthenticated
	}
	if err := change.Validate(); err != nil {
		return err
	}
	return m.deps.API.ChangePassword(ctx, change)
}

// DeleteAccount removes the account remotely, then tears the local session
// down the same way Logout does.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return flixerrors.ErrNotAuthenticated
	}
	if err := m.deps.API.DeleteAccount(ctx); err != nil {
		return err
	}
	m.clearSession()
	m.deps.Navigator.NavigateTo(RouteLogin)
	return nil
}

func (m *Manager) setUser(user *users.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = user
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isLoading = loading
}

// clearSession drops the user and both tokens together.
func (m *Manager) clearSession() {
	m.mu.Lock()
	m.currentUser = nil
	m.mu.Unlock()

	if err := m.deps.Tokens.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("Failed to clear token store")
	}
}
