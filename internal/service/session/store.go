// internal/service/session/store.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "storefront-client/internal/domain/session"
	xerrors "storefront-client/internal/pkg/errors"
	"storefront-client/internal/pkg/jwt"
	"storefront-client/internal/storage"
	"storefront-client/internal/ui"

	"go.uber.org/zap"
)

const (
	msgLoginFailed       = "Login failed! Please check your email or password."
	msgLoginInFlight     = "A login is already in progress."
	msgLoginSuperseded   = "You were logged out before the login finished. Please log in again."
	msgRegisterSucceeded = "Registration successful! Please log in."
	msgRegisterFailed    = "Registration failed! The email may already be in use."

	storageTimeout = 5 * time.Second
)

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) error
}

// HeaderSetter owns the default Authorization header of outgoing API calls.
type HeaderSetter interface {
	SetCredential(credential string)
	ClearCredential()
}

type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the credential, the identity decoded from it and the
// initialization phase.
type Store struct {
	mu            sync.RWMutex
	state         domain.State
	phase         domain.Phase
	credential    domain.Credential
	identity      *domain.Identity
	logoutEpoch   uint64
	loginInFlight bool

	// opMu serializes transitions together with their side effects so that
	// header and persisted value always match the last applied state.
	opMu     sync.Mutex
	initOnce sync.Once
	ready    chan struct{}

	creds    storage.CredentialStore
	decoder  jwt.Decoder
	api      AuthAPI
	header   HeaderSetter
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *zap.Logger
	now      func() time.Time

	subMu   sync.Mutex
	subs    map[uint64]func(domain.Snapshot)
	nextSub uint64
}

func NewStore(
	creds storage.CredentialStore,
	decoder jwt.Decoder,
	api AuthAPI,
	header HeaderSetter,
	nav ui.Navigator,
	notifier ui.Notifier,
	logger *zap.Logger,
	opts ...Option,
) *Store {
	s := &Store{
		state:    domain.StateUninitialized,
		phase:    domain.PhasePending,
		ready:    make(chan struct{}),
		creds:    creds,
		decoder:  decoder,
		api:      api,
		header:   header,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		subs:     make(map[uint64]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = domain.StateInitializing
	return s
}

// Ready is closed once the first validation pass has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns the current session. A credential that expired since the
// last transition is discarded before the snapshot is taken.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	expired := s.identity != nil && s.identity.Expired(s.now())
	snap := s.snapshotLocked()
	s.mu.RUnlock()

	if !expired {
		return snap
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.expire(ctx)
}

// Subscribe registers fn to receive a snapshot after every transition. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func(domain.Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Initialize runs the first validation pass over the persisted credential.
// Only the first call does any work; later calls return the current snapshot.
func (s *Store) Initialize(ctx context.Context) domain.Snapshot {
	s.initOnce.Do(func() { s.initialize(ctx) })
	return s.Snapshot()
}

func (s *Store) initialize(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	raw, ok, err := s.creds.Get(ctx)
	if err != nil {
		s.logger.Warn("failed to read persisted credential, starting anonymous", zap.Error(err))
		ok = false
	}

	var (
		cred  domain.Credential
		ident *domain.Identity
	)
	if ok && raw != "" {
		ident, err = s.decode(raw)
		if err != nil {
			s.logger.Info("discarding persisted credential", zap.Error(err))
			if rmErr := s.creds.Remove(ctx); rmErr != nil {
				s.logger.Warn("failed to remove persisted credential", zap.Error(rmErr))
			}
			ident = nil
		} else {
			cred = domain.Credential(raw)
		}
	}

	s.mu.Lock()
	s.phase = domain.PhaseComplete
	s.applyLocked(cred, ident)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.syncHeader(cred)
	close(s.ready)

	s.logger.Info("session initialized",
		zap.String("state", string(snap.State)),
	)
	s.publish(snap)
}

// Login exchanges credentials for a new session. Failures are reported in
// the Result and as a notice; they never leave the session half-changed.
func (s *Store) Login(ctx context.Context, req domain.LoginRequest) domain.Result {
	s.Initialize(ctx)

	s.mu.Lock()
	if s.loginInFlight {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return s.fail(snap, msgLoginInFlight, xerrors.ErrLoginInFlight)
	}
	s.loginInFlight = true
	epoch := s.logoutEpoch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loginInFlight = false
		s.mu.Unlock()
	}()

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		return s.fail(s.Snapshot(), msgLoginFailed, err)
	}

	ident, err := s.decode(resp.Token)
	if err != nil {
		s.logger.Warn("login returned an unusable credential", zap.String("email", req.Email), zap.Error(err))
		return s.fail(s.Snapshot(), msgLoginFailed, err)
	}

	s.opMu.Lock()
	s.mu.Lock()
	if s.logoutEpoch != epoch {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.opMu.Unlock()
		s.logger.Info("dropping login result superseded by a logout", zap.String("email", req.Email))
		return s.fail(snap, msgLoginSuperseded, xerrors.ErrStaleResult)
	}
	cred := domain.Credential(resp.Token)
	s.applyLocked(cred, ident)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.syncHeader(cred)
	if err := s.creds.Set(ctx, cred.String()); err != nil {
		s.logger.Warn("failed to persist credential", zap.Error(err))
	}
	s.opMu.Unlock()

	s.logger.Info("user logged in",
		zap.String("user_id", ident.ID),
		zap.String("role", string(ident.Role)),
	)
	s.publish(snap)

	target := ui.ViewHome
	if ident.Role.IsAdmin() {
		target = ui.ViewAdmin
	}
	s.nav.Navigate(target)

	return domain.Result{Success: true, Snapshot: snap, Target: target}
}

// Logout clears the session unconditionally and sends the user to the login
// view. Calling it while anonymous only repeats the navigation.
func (s *Store) Logout(ctx context.Context) domain.Result {
	s.Initialize(ctx)

	s.opMu.Lock()
	s.mu.Lock()
	wasAuthenticated := s.state == domain.StateAuthenticated
	s.logoutEpoch++
	s.applyLocked("", nil)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.syncHeader("")
	if err := s.creds.Remove(ctx); err != nil {
		s.logger.Warn("failed to remove persisted credential", zap.Error(err))
	}
	s.opMu.Unlock()

	if wasAuthenticated {
		s.logger.Info("user logged out")
		s.publish(snap)
	}
	s.nav.Navigate(ui.ViewLogin)

	return domain.Result{Success: true, Snapshot: snap, Target: ui.ViewLogin}
}

// Register forwards a new profile to the authentication API. The session is
// left untouched; the user has to log in explicitly afterwards.
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) domain.Result {
	if req.Username == "" {
		req.Username = usernameFromEmail(req.Email)
	}

	if err := s.api.Register(ctx, req); err != nil {
		s.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		return s.fail(s.Snapshot(), msgRegisterFailed, err)
	}

	notice := ui.NewNotice(ui.NoticeSuccess, msgRegisterSucceeded)
	s.notifier.Notify(notice)
	s.nav.Navigate(ui.ViewLogin)

	return domain.Result{Success: true, Snapshot: s.Snapshot(), Notice: &notice, Target: ui.ViewLogin}
}

// expire drops a credential whose expiry has passed.
func (s *Store) expire(ctx context.Context) domain.Snapshot {
	s.opMu.Lock()
	s.mu.Lock()
	if s.identity == nil || !s.identity.Expired(s.now()) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.opMu.Unlock()
		return snap
	}
	s.applyLocked("", nil)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.syncHeader("")
	if err := s.creds.Remove(ctx); err != nil {
		s.logger.Warn("failed to remove expired credential", zap.Error(err))
	}
	s.opMu.Unlock()

	s.logger.Info("credential expired, session is anonymous")
	s.publish(snap)
	return snap
}

// decode turns a raw credential into an Identity, rejecting anything that is
// malformed, carries an unknown role, or has expired.
func (s *Store) decode(raw string) (*domain.Identity, error) {
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidCredential, err)
	}

	id := claims.Identifier()
	if id == "" {
		return nil, fmt.Errorf("%w: missing user id", xerrors.ErrInvalidCredential)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnknownRole, err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", xerrors.ErrInvalidCredential)
	}

	ident := &domain.Identity{
		ID:          id,
		DisplayName: claims.Name,
		Role:        role,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if ident.Expired(s.now()) {
		return nil, xerrors.ErrCredentialExpired
	}
	return ident, nil
}

// applyLocked sets the credential and identity and the matching state. The
// caller holds s.mu.
func (s *Store) applyLocked(cred domain.Credential, ident *domain.Identity) {
	if cred == "" || ident == nil {
		s.credential = ""
		s.identity = nil
		s.state = domain.StateAnonymous
		return
	}
	s.credential = cred
	s.identity = ident
	s.state = domain.StateAuthenticated
}

func (s *Store) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		State:           s.state,
		Phase:           s.phase,
		IsAuthenticated: s.state == domain.StateAuthenticated,
		IsLoading:       s.phase == domain.PhasePending,
	}
	if s.identity != nil {
		ident := *s.identity
		snap.Identity = &ident
	}
	return snap
}

func (s *Store) syncHeader(cred domain.Credential) {
	if cred == "" {
		s.header.ClearCredential()
		return
	}
	s.header.SetCredential(cred.String())
}

func (s *Store) fail(snap domain.Snapshot, message string, err error) domain.Result {
	notice := ui.NewNotice(ui.NoticeError, message)
	s.notifier.Notify(notice)
	return domain.Result{Snapshot: snap, Notice: &notice, Err: err}
}

func (s *Store) publish(snap domain.Snapshot) {
	s.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
