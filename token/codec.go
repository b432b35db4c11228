package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden per codec with WithCodecNowFunc.
var NowTimeFunc = time.Now

// Codec signs claims into token strings and decodes token strings back into claims
// for a single secret. Decode verifies the signature and structure but never the
// expiry; callers evaluate expiry separately with IsExpired.
type Codec struct {
	signer  Signer
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

func WithCodecNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// NewCodec creates a codec around the given signer
func NewCodec(signer Signer, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		nowFunc: NowTimeFunc,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Sign stamps iat = now, exp = now + ttl and a fresh jti onto the claims and signs them.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.New().String()

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", autherrors.Wrapf(autherrors.Join(autherrors.ErrSigning, err), "Codec.Sign")
	}
	return signed, nil
}

// Decode verifies the token's signature with this codec's secret and returns its claims.
// Expired tokens decode successfully. Empty, malformed, wrongly signed or wrongly
// algorithmed tokens return ErrVerification.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, autherrors.ErrVerification
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, c.signer.GetVerificationKey)
	if err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrVerification, "Codec.Decode: %s", err.Error())
	}
	if !parsed.Valid {
		return nil, autherrors.ErrVerification
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, autherrors.Wrapf(autherrors.ErrVerification, "Codec.Decode: missing sub or exp")
	}
	return claims, nil
}
