package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/piston"

	"go.uber.org/zap"
)

type VersionResolver interface {
	ResolveVersion(ctx context.Context, language string) (string, error)
}

// Sandbox runs code remotely.
type Sandbox interface {
	Execute(ctx context.Context, req piston.ExecuteRequest) (json.RawMessage, error)
}

// Dispatcher validates a run request, resolves the runtime version and
// forwards the code to the sandbox exactly once.
type Dispatcher struct {
	resolver VersionResolver
	sandbox  Sandbox
	timeout  time.Duration
	log      *zap.Logger
}

func NewDispatcher(resolver VersionResolver, sandbox Sandbox, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		resolver: resolver,
		sandbox:  sandbox,
		timeout:  timeout,
		log:      log,
	}
}

// Execute returns the sandbox result document unchanged. Execution is not
// idempotent, so a failed submission is reported and never retried.
func (d *Dispatcher) Execute(ctx context.Context, language, code string) (json.RawMessage, error) {
	if strings.TrimSpace(code) == "" {
		return nil, perrors.NewErrInvalidRequest("code cannot be empty", nil)
	}
	if strings.TrimSpace(language) == "" {
		return nil, perrors.NewErrInvalidRequest("language is required", nil)
	}

	version, err := d.resolver.ResolveVersion(ctx, language)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.sandbox.Execute(ctx, piston.ExecuteRequest{
		Language: language,
		Version:  version,
		Files:    []piston.File{{Content: code}},
	})
	if err != nil {
		d.log.Warn("execution failed",
			zap.String("language", language),
			zap.String("version", version),
			zap.Error(err),
		)

		var remote *piston.RemoteError
		switch {
		case errors.As(err, &remote):
			return nil, perrors.NewErrExecutionFailed("execution failed", err, remote.Body)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, perrors.NewErrExecutionFailed("execution timed out", err, nil)
		default:
			return nil, perrors.NewErrExecutionFailed("execution failed", err, transportDetails(err))
		}
	}
	return result, nil
}

// transportDetails reports why the sandbox could not be reached without
// echoing the request URL.
func transportDetails(err error) map[string]string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	return map[string]string{"message": err.Error()}
}
