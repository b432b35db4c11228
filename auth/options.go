package auth

import (
	"time"

	"github.com/rs/zerolog"
)

// NowTimeFunc is the default clock for every component in this package
var NowTimeFunc = time.Now

type options struct {
	nowFunc func() time.Time
	logger  zerolog.Logger
	locks   *KeyedMutex
}

// Option configures the issuer, validator, rotator and service
type Option func(*options)

// WithNowFunc sets the clock used for expiry decisions (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLocks shares a per-principal lock set between components
func WithLocks(locks *KeyedMutex) Option {
	return func(o *options) {
		o.locks = locks
	}
}

func buildOptions(opts []Option) options {
	o := options{
		nowFunc: NowTimeFunc,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locks == nil {
		o.locks = NewKeyedMutex()
	}
	return o
}
