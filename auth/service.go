package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/rs/zerolog"
)

var (
	// checkPassword compares a plaintext password with a bcrypt hash
	checkPassword = principals.CheckPasswordHash

	// unknownPrincipalHash is checked when the username does not exist, so both
	// sign-in failures run one bcrypt comparison
	unknownPrincipalHash = sync.OnceValue(func() string {
		h, err := principals.HashPassword("unknown-principal")
		if err != nil {
			panic(fmt.Sprintf("hash placeholder password: %v", err))
		}
		return h
	})
)

// Service runs the account flows on top of the session lifecycle components
type Service struct {
	store     principals.Store
	roles     Roles
	issuer    *Issuer
	validator *Validator
	rotator   *Rotator
	adminGate *RoleGate
	locks     *KeyedMutex
	nowFunc   func() time.Time
	logger    zerolog.Logger
}

// SignInResult is returned by a successful sign in
type SignInResult struct {
	Principal *principals.Principal
	Tokens    principals.TokenPair
}

func NewService(store principals.Store, roles Roles, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if roles.User == nil || roles.Admin == nil {
		return nil, errors.New("[NewService] user and admin roles are required")
	}

	o := buildOptions(opts)
	shared := append(append([]Option{}, opts...), WithLocks(o.locks))

	issuer := NewIssuer(store, shared...)
	validator := NewValidator(store, shared...)
	return &Service{
		store:     store,
		roles:     roles,
		issuer:    issuer,
		validator: validator,
		rotator:   NewRotator(store, issuer, shared...),
		adminGate: NewRoleGate(validator, roles.Admin.ClaimRole),
		locks:     o.locks,
		nowFunc:   o.nowFunc,
		logger:    o.logger,
	}, nil
}

// SignUp creates a principal with no session. Duplicate usernames return PrincipalExistsErr.
func (s *Service) SignUp(ctx context.Context, role principals.RoleType, username, password string) (*principals.Principal, error) {
	if _, err := s.roles.For(role); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if err := principals.ValidateCredentials(username, password); err != nil {
		return nil, fmt.Errorf("[SignUp] %w", err)
	}

	hash, err := principals.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[SignUp] hash password: %w", err)
	}

	p := &principals.Principal{
		ID:           uuid.New().String(),
		Role:         role,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.nowFunc().UTC(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		if autherrors.Is(err, autherrors.ErrConflict) {
			return nil, PrincipalExistsErr
		}
		return nil, autherrors.Wrapf(err, "[SignUp] create principal")
	}

	s.logger.Info().Str("principal_id", p.ID).Str("role", role.String()).Msg("principal created")
	return p, nil
}

// SignIn verifies the password and issues a new pair, superseding any earlier session.
// Unknown usernames and wrong passwords both return InvalidCredentialsErr.
func (s *Service) SignIn(ctx context.Context, role principals.RoleType, username, password string) (*SignInResult, error) {
	r, err := s.roles.For(role)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetByUsername(ctx, role, strings.TrimSpace(username))
	if err != nil {
		if autherrors.Is(err, autherrors.ErrNotFound) {
			checkPassword(password, unknownPrincipalHash())
			obs.ObserveSignIn(role.String(), obs.ResultDenied)
			return nil, InvalidCredentialsErr
		}
		obs.ObserveSignIn(role.String(), obs.ResultError)
		return nil, autherrors.Wrapf(err, "[SignIn] lookup principal")
	}
	if !checkPassword(password, p.PasswordHash) {
		obs.ObserveSignIn(role.String(), obs.ResultDenied)
		return nil, InvalidCredentialsErr
	}

	pair, err := s.issuer.Issue(ctx, r, p)
	if err != nil {
		obs.ObserveSignIn(role.String(), obs.ResultError)
		return nil, err
	}
	obs.ObserveSignIn(role.String(), obs.ResultOK)

	p.Tokens = pair
	return &SignInResult{Principal: p, Tokens: pair}, nil
}

// SignOut clears the stored pair when the presented access token is the live one,
// whether or not it has expired. Anything else is a no-op.
func (s *Service) SignOut(ctx context.Context, role principals.RoleType, cred IncomingCredential) error {
	r, err := s.roles.For(role)
	if err != nil {
		return err
	}

	if !cred.HasAccessToken() {
		return nil
	}
	claims, err := r.Access.Decode(cred.AccessToken)
	if err != nil {
		return nil
	}

	unlock := s.locks.Lock(lockKey(r.Name, claims.PrincipalID()))
	defer unlock()

	session, err := s.validator.Validate(ctx, r, cred.AccessToken)
	if err != nil {
		return err
	}
	if session.State == StateUnauthenticated {
		return nil
	}

	if err := s.store.SetTokens(ctx, r.Name, session.PrincipalID(), principals.TokenPair{}); err != nil {
		return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "[SignOut]")
	}
	s.logger.Info().Str("principal_id", session.PrincipalID()).Str("role", role.String()).Msg("signed out")
	return nil
}

// Refresh resolves the principal from the credential and rotates its pair.
// The body shape identifies the principal by username; a principal id takes precedence,
// and when both are given the refresh token must have been issued to that username.
func (s *Service) Refresh(ctx context.Context, role principals.RoleType, cred IncomingCredential) (principals.TokenPair, error) {
	r, err := s.roles.For(role)
	if err != nil {
		return principals.TokenPair{}, err
	}
	if !cred.HasRefreshToken() {
		return principals.TokenPair{}, autherrors.ErrRotationDenied
	}

	principalID := cred.PrincipalID
	switch {
	case principalID != "" && cred.Username != "":
		claims, err := r.Refresh.Decode(cred.RefreshToken)
		if err != nil || claims.Username != cred.Username {
			return principals.TokenPair{}, autherrors.ErrRotationDenied
		}
	case principalID == "":
		if cred.Username == "" {
			return principals.TokenPair{}, autherrors.ErrRotationDenied
		}
		p, err := s.store.GetByUsername(ctx, role, cred.Username)
		if err != nil {
			if autherrors.Is(err, autherrors.ErrNotFound) {
				return principals.TokenPair{}, autherrors.ErrRotationDenied
			}
			return principals.TokenPair{}, autherrors.Wrapf(err, "[Refresh] lookup principal")
		}
		principalID = p.ID
	}

	return s.rotator.Rotate(ctx, r, principalID, cred.RefreshToken)
}

// Authenticate validates the credential's access token. A nil error means a valid session;
// otherwise the error is ErrUnauthenticated, ErrTokenExpired or an internal fault.
func (s *Service) Authenticate(ctx context.Context, role principals.RoleType, cred IncomingCredential) (Session, error) {
	r, err := s.roles.For(role)
	if err != nil {
		return Session{}, err
	}
	session, err := s.validator.Validate(ctx, r, cred.AccessToken)
	if err != nil {
		return session, err
	}
	return session, session.Err()
}

// AuthenticateAdmin is Authenticate for the admin role followed by the admin RoleGate
func (s *Service) AuthenticateAdmin(ctx context.Context, cred IncomingCredential) (Session, error) {
	return s.adminGate.Check(ctx, s.roles.Admin, cred.AccessToken)
}

// GetPrincipal returns the account behind a validated session
func (s *Service) GetPrincipal(ctx context.Context, session Session) (*principals.Principal, error) {
	p, err := s.store.GetByID(ctx, session.Role, session.PrincipalID())
	if err != nil {
		return nil, autherrors.Wrapf(err, "[GetPrincipal]")
	}
	return p, nil
}

// EnsureAdmin creates the admin account if it does not exist. It reports whether one was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.SignUp(ctx, principals.RoleAdmin, username, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, PrincipalExistsErr):
		return false, nil
	default:
		return false, err
	}
}
