package usecase

import (
	"context"
	"encoding/json"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/execution/domain"
	"syncode-backend/internal/execution/repository"
	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/piston"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

type executionUsecase struct {
	dispatcher  *Dispatcher
	resolver    *RuntimeResolver
	historyRepo repository.RunHistoryRepository
	log         *zap.Logger
}

func NewExecutionUsecase(dispatcher *Dispatcher, resolver *RuntimeResolver, historyRepo repository.RunHistoryRepository, log *zap.Logger) ExecutionUsecase {
	return &executionUsecase{
		dispatcher:  dispatcher,
		resolver:    resolver,
		historyRepo: historyRepo,
		log:         log,
	}
}

func (u *executionUsecase) Run(ctx context.Context, caller *authdomain.User, language, code string) (json.RawMessage, error) {
	result, err := u.dispatcher.Execute(ctx, language, code)
	if err != nil {
		return nil, err
	}

	if caller != nil && u.historyRepo != nil {
		run := &domain.RunHistory{
			UserID:   caller.ID,
			Language: language,
			Code:     code,
			Output:   runOutput(result),
		}
		if err := u.historyRepo.Create(run); err != nil {
			u.log.Warn("failed to record run history", zap.String("user_id", caller.ID), zap.Error(err))
		}
	}
	return result, nil
}

func (u *executionUsecase) GetHistory(caller *authdomain.User) ([]*domain.RunHistory, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	runs, err := u.historyRepo.FindByUserID(caller.ID, historyLimit)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to load run history", err)
	}
	return runs, nil
}

func (u *executionUsecase) ListRuntimes(ctx context.Context) ([]piston.Runtime, error) {
	runtimes, err := u.resolver.Runtimes(ctx)
	if err != nil {
		return nil, perrors.NewErrUpstreamUnavailable("runtime registry unavailable", err)
	}
	return runtimes, nil
}

// runOutput pulls run.output (falling back to run.stdout) out of a sandbox result.
func runOutput(result json.RawMessage) string {
	for _, field := range []string{"output", "stdout"} {
		node, err := sonic.Get(result, "run", field)
		if err != nil {
			continue
		}
		if s, err := node.String(); err == nil {
			return s
		}
	}
	return ""
}
