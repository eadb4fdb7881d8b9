package usecase

import (
	"strings"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/snippet/domain"
	"syncode-backend/internal/snippet/repository"
	"syncode-backend/pkg/perrors"

	"go.uber.org/zap"
)

// snippetUsecase implements SnippetUsecase interface
type snippetUsecase struct {
	snippetRepo repository.SnippetRepository
	indexer     Indexer
	log         *zap.Logger
}

// NewSnippetUsecase creates a new instance of snippetUsecase
func NewSnippetUsecase(snippetRepo repository.SnippetRepository, log *zap.Logger) SnippetUsecase {
	return &snippetUsecase{
		snippetRepo: snippetRepo,
		log:         log,
	}
}

func (u *snippetUsecase) SetIndexer(indexer Indexer) {
	u.indexer = indexer
}

func (u *snippetUsecase) SaveSnippet(caller *authdomain.User, language, code string) (*domain.Snippet, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	language = strings.TrimSpace(language)
	if language == "" || strings.TrimSpace(code) == "" {
		return nil, perrors.NewErrInvalidRequest("code and language are required", nil)
	}

	snippet := &domain.Snippet{
		UserID:   caller.ID,
		Language: language,
		Code:     code,
	}
	if err := u.snippetRepo.Create(snippet); err != nil {
		return nil, perrors.NewErrInternalServerError("failed to save snippet", err)
	}
	u.log.Info("snippet saved", zap.String("snippet_id", snippet.ID), zap.String("user_id", caller.ID))

	if u.indexer != nil && !u.indexer.QueueSnippet(snippet) {
		u.log.Warn("index queue full, snippet not indexed", zap.String("snippet_id", snippet.ID))
	}
	return snippet, nil
}

func (u *snippetUsecase) GetAllSnippets(caller *authdomain.User) ([]*domain.Snippet, error) {
	if !caller.IsAdmin() {
		return nil, perrors.NewErrForbidden("access denied")
	}
	snippets, err := u.snippetRepo.FindAll()
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to list snippets", err)
	}
	return snippets, nil
}

func (u *snippetUsecase) GetUserSnippets(caller *authdomain.User, ownerID string) ([]*domain.Snippet, error) {
	if !caller.CanAccess(ownerID) {
		return nil, perrors.NewErrForbidden("access denied")
	}
	snippets, err := u.snippetRepo.FindByUserID(ownerID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to list snippets", err)
	}
	return snippets, nil
}

func (u *snippetUsecase) GetSnippetByID(caller *authdomain.User, snippetID string) (*domain.Snippet, error) {
	snippet, err := u.snippetRepo.FindByID(snippetID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to load snippet", err)
	}
	if snippet == nil {
		return nil, perrors.NewErrNotFound("snippet not found")
	}
	if !caller.CanAccess(snippet.UserID) {
		return nil, perrors.NewErrForbidden("access denied")
	}
	return snippet, nil
}

func (u *snippetUsecase) UpdateSnippet(caller *authdomain.User, snippetID string, updates SnippetUpdateRequest) (*domain.Snippet, error) {
	snippet, err := u.GetSnippetByID(caller, snippetID)
	if err != nil {
		return nil, err
	}

	if updates.Code != "" {
		snippet.Code = updates.Code
	}
	if lang := strings.TrimSpace(updates.Language); lang != "" {
		snippet.Language = lang
	}

	if err := u.snippetRepo.Update(snippet); err != nil {
		return nil, perrors.NewErrInternalServerError("failed to update snippet", err)
	}
	return snippet, nil
}

func (u *snippetUsecase) SetPinned(caller *authdomain.User, snippetID string, pinned bool) (*domain.Snippet, error) {
	snippet, err := u.GetSnippetByID(caller, snippetID)
	if err != nil {
		return nil, err
	}

	snippet.Pinned = pinned
	if err := u.snippetRepo.Update(snippet); err != nil {
		return nil, perrors.NewErrInternalServerError("failed to update snippet", err)
	}
	return snippet, nil
}

func (u *snippetUsecase) DeleteSnippet(caller *authdomain.User, snippetID string) error {
	snippet, err := u.GetSnippetByID(caller, snippetID)
	if err != nil {
		return err
	}
	if err := u.snippetRepo.Delete(snippet.ID); err != nil {
		return perrors.NewErrInternalServerError("failed to delete snippet", err)
	}
	return nil
}
