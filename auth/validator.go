package auth

import (
	"context"
	"crypto/subtle"
	"time"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/token"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// State is the outcome of validating a presented access token
type State int

const (
	StateUnauthenticated State = iota
	StateValid
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "authenticated-valid"
	case StateExpired:
		return "authenticated-expired"
	default:
		return "unauthenticated"
	}
}

// Session is the validated view of a request's access token
type Session struct {
	State  State
	Role   principals.RoleType
	Claims *token.Claims // nil when unauthenticated
}

func (s Session) PrincipalID() string {
	return s.Claims.PrincipalID()
}

func (s Session) Username() string {
	if s.Claims == nil {
		return ""
	}
	return s.Claims.Username
}

// Err maps the state onto the error taxonomy; nil for a valid session
func (s Session) Err() error {
	switch s.State {
	case StateValid:
		return nil
	case StateExpired:
		return autherrors.ErrTokenExpired
	default:
		return autherrors.ErrUnauthenticated
	}
}

// Validator decides whether an access token is the live token of its principal
type Validator struct {
	store   principals.AuthorizationStore
	nowFunc func() time.Time
	logger  zerolog.Logger
}

func NewValidator(store principals.AuthorizationStore, opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{
		store:   store,
		nowFunc: o.nowFunc,
		logger:  o.logger,
	}
}

// Validate runs the checks in order: presence, signature, store membership, expiry.
// Store membership comes before expiry so a superseded token is reported as
// unauthenticated rather than expired. The error is non-nil only for store faults.
func (v *Validator) Validate(ctx context.Context, role *Role, accessToken string) (Session, error) {
	ctx, span := obs.Tracer().Start(ctx, "session.validate")
	defer span.End()

	session, reason, err := v.validate(ctx, role, accessToken)
	span.SetAttributes(
		attribute.String("session.role", role.Name.String()),
		attribute.String("session.state", session.State.String()),
	)
	obs.ObserveValidation(role.Name.String(), session.State.String())

	log := obs.WithTrace(ctx, v.logger)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("role", role.Name.String()).Msg("session validation failed")
		return Session{State: StateUnauthenticated, Role: role.Name}, err
	}
	if session.State == StateUnauthenticated {
		log.Debug().Str("role", role.Name.String()).Str("reason", reason).Msg("unauthenticated")
	}
	return session, nil
}

func (v *Validator) validate(ctx context.Context, role *Role, accessToken string) (Session, string, error) {
	unauthenticated := Session{State: StateUnauthenticated, Role: role.Name}

	if accessToken == "" {
		return unauthenticated, "no token", nil
	}

	claims, err := role.Access.Decode(accessToken)
	if err != nil {
		return unauthenticated, "decode failed", nil
	}

	stored, err := v.store.GetTokens(ctx, role.Name, claims.PrincipalID())
	if err != nil {
		if autherrors.Is(err, autherrors.ErrNotFound) {
			return unauthenticated, "unknown principal", nil
		}
		return unauthenticated, "", autherrors.Wrapf(err, "Validator.Validate")
	}
	if !tokensEqual(accessToken, stored.AccessToken) {
		return unauthenticated, "not the stored token", nil
	}

	session := Session{State: StateValid, Role: role.Name, Claims: claims}
	if token.IsExpired(claims, v.nowFunc()) {
		session.State = StateExpired
	}
	return session, "", nil
}

// tokensEqual compares in constant time; an empty stored token never matches
func tokensEqual(presented, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
