package auth

import (
	"context"
	"time"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/token"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Rotator exchanges the stored refresh token for a brand-new pair
type Rotator struct {
	store   principals.AuthorizationStore
	issuer  *Issuer
	nowFunc func() time.Time
	logger  zerolog.Logger
}

// NewRotator shares the issuer's per-principal locks so rotation and issuance never interleave
func NewRotator(store principals.AuthorizationStore, issuer *Issuer, opts ...Option) *Rotator {
	o := buildOptions(opts)
	return &Rotator{
		store:   store,
		issuer:  issuer,
		nowFunc: o.nowFunc,
		logger:  o.logger,
	}
}

// Rotate returns ErrRotationDenied when the refresh token fails to decode, is not the
// stored refresh token, belongs to another principal, lacks the role's claim or has expired.
// Otherwise the issuer mints and persists a new pair, which supersedes the old one.
func (r *Rotator) Rotate(ctx context.Context, role *Role, principalID, refreshToken string) (principals.TokenPair, error) {
	ctx, span := obs.Tracer().Start(ctx, "session.rotate")
	defer span.End()
	span.SetAttributes(attribute.String("session.role", role.Name.String()))

	pair, reason, err := r.rotate(ctx, role, principalID, refreshToken)
	log := obs.WithTrace(ctx, r.logger)
	switch {
	case err == nil:
		obs.ObserveRotation(role.Name.String(), obs.ResultOK)
	case autherrors.Is(err, autherrors.ErrRotationDenied):
		obs.ObserveRotation(role.Name.String(), obs.ResultDenied)
		log.Debug().Str("role", role.Name.String()).Str("reason", reason).Msg("rotation denied")
	default:
		span.RecordError(err)
		obs.ObserveRotation(role.Name.String(), obs.ResultError)
		log.Error().Err(err).Str("principal_id", principalID).Str("role", role.Name.String()).Msg("rotation failed")
	}
	return pair, err
}

func (r *Rotator) rotate(ctx context.Context, role *Role, principalID, refreshToken string) (principals.TokenPair, string, error) {
	if principalID == "" || refreshToken == "" {
		return principals.TokenPair{}, "missing principal or token", autherrors.ErrRotationDenied
	}

	claims, err := role.Refresh.Decode(refreshToken)
	if err != nil {
		return principals.TokenPair{}, "decode failed", autherrors.ErrRotationDenied
	}

	unlock := r.issuer.locks.Lock(lockKey(role.Name, principalID))
	defer unlock()

	stored, err := r.store.GetTokens(ctx, role.Name, principalID)
	if err != nil {
		if autherrors.Is(err, autherrors.ErrNotFound) {
			return principals.TokenPair{}, "unknown principal", autherrors.ErrRotationDenied
		}
		return principals.TokenPair{}, "", autherrors.Wrapf(err, "Rotator.Rotate")
	}

	switch {
	case !tokensEqual(refreshToken, stored.RefreshToken):
		return principals.TokenPair{}, "not the stored token", autherrors.ErrRotationDenied
	case claims.PrincipalID() != principalID:
		return principals.TokenPair{}, "principal mismatch", autherrors.ErrRotationDenied
	case !role.hasRequiredClaim(claims):
		return principals.TokenPair{}, "role claim mismatch", autherrors.ErrRotationDenied
	case token.IsExpired(claims, r.nowFunc()):
		return principals.TokenPair{}, "refresh token expired", autherrors.ErrRotationDenied
	}

	p := &principals.Principal{ID: principalID, Role: role.Name, Username: claims.Username}
	pair, err := r.issuer.issueLocked(ctx, role, p)
	if err != nil {
		return principals.TokenPair{}, "", err
	}
	return pair, "", nil
}
