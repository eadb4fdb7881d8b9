package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"syncode-backend/pkg/fuzzy"
	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/piston"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

var (
	ErrRuntimeUnknown      = errors.New("no runtime matches language")
	ErrRegistryUnavailable = errors.New("runtime registry unavailable")
)

// Registry lists installed runtimes.
type Registry interface {
	Runtimes(ctx context.Context) ([]piston.Runtime, error)
}

type ResolverConfig struct {
	// Timeout bounds one resolution including retries.
	Timeout        time.Duration
	MaxTries       uint
	InitialBackoff time.Duration
}

// RuntimeResolver maps a language name or alias to an installed version.
type RuntimeResolver struct {
	registry Registry
	cache    RuntimeCache
	cfg      ResolverConfig
	log      *zap.Logger
}

// NewRuntimeResolver builds a resolver. A nil cache means every resolution
// makes a fresh registry round trip.
func NewRuntimeResolver(registry Registry, cache RuntimeCache, cfg ResolverConfig, log *zap.Logger) *RuntimeResolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	return &RuntimeResolver{
		registry: registry,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// ResolveVersion returns the version of the first runtime whose language or
// aliases equal language. Any failure is a runtime_not_found error; the
// wrapped cause tells a registry outage apart from an unknown language.
func (r *RuntimeResolver) ResolveVersion(ctx context.Context, language string) (string, error) {
	runtimes, err := r.Runtimes(ctx)
	if err != nil {
		return "", perrors.NewErrRuntimeNotFound("could not find valid runtime version",
			fmt.Errorf("%w: %w", ErrRegistryUnavailable, err))
	}

	if rt, ok := MatchRuntime(runtimes, language); ok {
		return rt.Version, nil
	}

	msg := fmt.Sprintf("could not find valid runtime version for %q", language)
	if suggestion, ok := suggestLanguage(runtimes, language); ok {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return "", perrors.NewErrRuntimeNotFound(msg, ErrRuntimeUnknown)
}

// Runtimes returns the cached listing or fetches a fresh one.
func (r *RuntimeResolver) Runtimes(ctx context.Context) ([]piston.Runtime, error) {
	if r.cache != nil {
		runtimes, ok, err := r.cache.Get(ctx)
		if err != nil {
			r.log.Warn("runtime cache read failed", zap.Error(err))
		} else if ok {
			return runtimes, nil
		}
	}
	return r.Refresh(ctx)
}

// Refresh fetches the listing from the registry and stores it in the cache.
func (r *RuntimeResolver) Refresh(ctx context.Context) ([]piston.Runtime, error) {
	runtimes, err := r.fetch(ctx)
	if err != nil {
		r.log.Warn("runtime registry unavailable", zap.Error(err))
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, runtimes); err != nil {
			r.log.Warn("runtime cache write failed", zap.Error(err))
		}
	}
	return runtimes, nil
}

// fetch retries transient failures. Listing runtimes is a read, so
// repeating it is safe.
func (r *RuntimeResolver) fetch(ctx context.Context) ([]piston.Runtime, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialBackoff

	return backoff.Retry(ctx, func() ([]piston.Runtime, error) {
		runtimes, err := r.registry.Runtimes(ctx)
		if err != nil {
			var remote *piston.RemoteError
			if errors.As(err, &remote) && remote.StatusCode < http.StatusInternalServerError {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return runtimes, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.cfg.MaxTries))
}

// MatchRuntime picks the first runtime whose canonical name or one of its
// aliases equals language exactly.
func MatchRuntime(runtimes []piston.Runtime, language string) (piston.Runtime, bool) {
	for _, rt := range runtimes {
		if rt.Language == language {
			return rt, true
		}
		for _, alias := range rt.Aliases {
			if alias == language {
				return rt, true
			}
		}
	}
	return piston.Runtime{}, false
}

func suggestLanguage(runtimes []piston.Runtime, language string) (string, bool) {
	if language == "" {
		return "", false
	}
	names := make([]string, 0, len(runtimes))
	for _, rt := range runtimes {
		names = append(names, rt.Language)
		names = append(names, rt.Aliases...)
	}
	return fuzzy.Closest(language, names, fuzzy.Threshold(language))
}
