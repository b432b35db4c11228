package auth

import (
	"context"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Issuer mints a fresh token pair for a principal and makes it the only valid pair
type Issuer struct {
	store  principals.AuthorizationStore
	locks  *KeyedMutex
	logger zerolog.Logger
}

func NewIssuer(store principals.AuthorizationStore, opts ...Option) *Issuer {
	o := buildOptions(opts)
	return &Issuer{
		store:  store,
		locks:  o.locks,
		logger: o.logger,
	}
}

// Issue signs an access and refresh token for p and persists them, overwriting any prior pair.
// A pair is only returned once it has been stored; any failure wraps ErrIssuance.
func (i *Issuer) Issue(ctx context.Context, role *Role, p *principals.Principal) (principals.TokenPair, error) {
	unlock := i.locks.Lock(lockKey(role.Name, p.ID))
	defer unlock()

	return i.issueLocked(ctx, role, p)
}

// issueLocked expects the caller to hold the principal's lock
func (i *Issuer) issueLocked(ctx context.Context, role *Role, p *principals.Principal) (principals.TokenPair, error) {
	ctx, span := obs.Tracer().Start(ctx, "session.issue")
	defer span.End()
	span.SetAttributes(attribute.String("session.role", role.Name.String()))

	pair, err := i.sign(role, p)
	if err == nil {
		err = i.store.SetTokens(ctx, role.Name, p.ID, pair)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issuance failed")
		obs.ObserveIssuance(role.Name.String(), obs.ResultError)
		obs.WithTrace(ctx, i.logger).Error().Err(err).
			Str("principal_id", p.ID).
			Str("role", role.Name.String()).
			Msg("session issuance failed")
		return principals.TokenPair{}, autherrors.Wrapf(autherrors.Join(autherrors.ErrIssuance, err), "Issuer.Issue")
	}

	obs.ObserveIssuance(role.Name.String(), obs.ResultOK)
	return pair, nil
}

func (i *Issuer) sign(role *Role, p *principals.Principal) (principals.TokenPair, error) {
	claims := role.claimsFor(p)

	access, err := role.Access.Sign(claims, role.AccessTTL)
	if err != nil {
		return principals.TokenPair{}, err
	}
	refresh, err := role.Refresh.Sign(claims, role.RefreshTTL)
	if err != nil {
		return principals.TokenPair{}, err
	}
	return principals.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
