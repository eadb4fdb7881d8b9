package usecase

import (
	"context"
	"encoding/json"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/execution/domain"
	"syncode-backend/pkg/piston"
)

const historyLimit = 50

// ExecutionUsecase runs code for anonymous or signed-in callers and keeps a
// run history for the latter.
type ExecutionUsecase interface {
	// Run dispatches code. caller may be nil.
	Run(ctx context.Context, caller *authdomain.User, language, code string) (json.RawMessage, error)

	GetHistory(caller *authdomain.User) ([]*domain.RunHistory, error)
	ListRuntimes(ctx context.Context) ([]piston.Runtime, error)
}
