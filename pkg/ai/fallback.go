package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// Provider is a named Assistant.
type Provider struct {
	Name      string
	Assistant Assistant
}

// FallbackService tries providers in order and moves to the next one when a
// provider fails.
type FallbackService struct {
	providers []Provider
	log       *zap.Logger
}

// NewFallbackService creates a new fallback service over the given providers
func NewFallbackService(log *zap.Logger, providers ...Provider) *FallbackService {
	return &FallbackService{
		providers: providers,
		log:       log,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource_exhausted",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func reason(err error) string {
	switch {
	case isQuotaError(err):
		return "quota"
	case isConnectionError(err):
		return "connection"
	default:
		return "error"
	}
}

// Answer implements Assistant
func (f *FallbackService) Answer(ctx context.Context, system, prompt string) (string, error) {
	var errs []error
	for _, p := range f.providers {
		result, err := p.Assistant.Answer(ctx, system, prompt)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		f.log.Warn("AI provider failed, trying next",
			zap.String("provider", p.Name),
			zap.String("reason", reason(err)),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("no AI provider available")
	}
	return "", errors.Join(errs...)
}
