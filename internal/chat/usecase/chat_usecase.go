package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/chat/domain"
	"syncode-backend/internal/chat/repository"
	"syncode-backend/pkg/ai"
	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/rag"
	"syncode-backend/pkg/retrieval"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	historyLimit = 50
	// maxDocumentSize caps documents indexed in the local store.
	maxDocumentSize = 1 << 20
)

const systemPrompt = `You are an expert programming assistant.
Always respond in JSON format:
{
  "code": "<insert code here>",
  "explanation": "<brief explanation here>"
}
Detect the programming language from the user's question and provide runnable code first, followed by a short explanation.
Do not include extra text outside the JSON.
Only provide coding-relevant answers.`

type chatUsecase struct {
	chatRepo  repository.ChatLogRepository
	assistant ai.Assistant
	store     retrieval.Store
	remote    RemoteIndex
	timeout   time.Duration
	log       *zap.Logger
}

// NewChatUsecase creates a new chat usecase. Without a remote index the
// local store supplies context and receives uploads.
func NewChatUsecase(
	chatRepo repository.ChatLogRepository,
	assistant ai.Assistant,
	store retrieval.Store,
	timeout time.Duration,
	log *zap.Logger,
) ChatUsecase {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chatUsecase{
		chatRepo:  chatRepo,
		assistant: assistant,
		store:     store,
		timeout:   timeout,
		log:       log,
	}
}

func (u *chatUsecase) SetRemoteIndex(remote RemoteIndex) {
	u.remote = remote
}

func (u *chatUsecase) Ask(ctx context.Context, caller *authdomain.User, bearer, question string) (*AskResult, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, perrors.NewErrInvalidRequest("question is required", nil)
	}
	if u.assistant == nil {
		return nil, perrors.NewErrUpstreamUnavailable("assistant is not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	contextText, refs, err := u.retrieve(ctx, caller, bearer, question)
	if err != nil {
		return nil, perrors.NewErrUpstreamUnavailable("error retrieving context", err)
	}

	raw, err := u.assistant.Answer(ctx, systemPrompt, fmt.Sprintf("Context: %s\nQuestion: %s", contextText, question))
	if err != nil {
		return nil, perrors.NewErrUpstreamUnavailable("error generating coding answer", err)
	}
	answer := parseAnswer(raw)

	if err := u.chatRepo.Create(&domain.ChatLog{
		UserID:   caller.ID,
		Question: question,
		Answer:   raw,
		Snippets: refs,
	}); err != nil {
		u.log.Warn("failed to save chat log", zap.String("user_id", caller.ID), zap.Error(err))
	}

	return &AskResult{Answer: answer, RetrievedDocs: contextText}, nil
}

func (u *chatUsecase) retrieve(ctx context.Context, caller *authdomain.User, bearer, question string) (string, []domain.SnippetRef, error) {
	if u.remote != nil {
		text, err := u.remote.Retrieve(ctx, bearer, question, caller.ID)
		return text, nil, err
	}
	if u.store == nil {
		return "", nil, nil
	}

	docs, err := u.store.Query(ctx, question, retrieval.DefaultK)
	if err != nil {
		return "", nil, err
	}
	refs := make([]domain.SnippetRef, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, domain.SnippetRef{ID: d.ID, Text: d.Text})
		texts = append(texts, d.Text)
	}
	return strings.Join(texts, "\n\n"), refs, nil
}

// parseAnswer accepts the JSON shape the system prompt asks for and treats
// anything else as bare code.
func parseAnswer(raw string) domain.Answer {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var answer domain.Answer
	if strings.HasPrefix(trimmed, "{") && sonic.UnmarshalString(trimmed, &answer) == nil {
		return answer
	}
	return domain.Answer{Code: raw}
}

func (u *chatUsecase) UploadDocument(ctx context.Context, caller *authdomain.User, bearer, filename string, content io.Reader) (json.RawMessage, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	if filename == "" || content == nil {
		return nil, perrors.NewErrInvalidRequest("File missing", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if u.remote != nil {
		out, err := u.remote.UploadDocument(ctx, bearer, filename, content)
		if err != nil {
			return nil, perrors.NewErrUpstreamUnavailable("error uploading document", err)
		}
		return out, nil
	}

	data, err := io.ReadAll(io.LimitReader(content, maxDocumentSize))
	if err != nil {
		return nil, perrors.NewErrInvalidRequest("could not read file", err)
	}
	id := uuid.New().String()
	if err := u.index(ctx, retrieval.Document{ID: id, UserID: caller.ID, Text: string(data)}); err != nil {
		return nil, err
	}
	return sonic.Marshal(map[string]string{"message": "Document indexed", "id": id, "name": filename})
}

func (u *chatUsecase) AddSnippet(ctx context.Context, caller *authdomain.User, bearer, snippetID, code string) (json.RawMessage, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	if strings.TrimSpace(code) == "" {
		return nil, perrors.NewErrInvalidRequest("code is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if u.remote != nil {
		out, err := u.remote.UploadSnippet(ctx, bearer, snippetID, code)
		if err != nil {
			return nil, perrors.NewErrUpstreamUnavailable("failed to add snippet to RAG", err)
		}
		return out, nil
	}

	name := rag.SnippetDocumentName(snippetID)
	if err := u.index(ctx, retrieval.Document{ID: name, UserID: caller.ID, Text: code}); err != nil {
		return nil, err
	}
	return sonic.Marshal(map[string]string{"name": name})
}

func (u *chatUsecase) index(ctx context.Context, doc retrieval.Document) error {
	if u.store == nil {
		return perrors.NewErrUpstreamUnavailable("no retrieval store configured", nil)
	}
	if err := u.store.Add(ctx, doc); err != nil {
		return perrors.NewErrUpstreamUnavailable("failed to index document", err)
	}
	return nil
}

func (u *chatUsecase) GetHistory(caller *authdomain.User) ([]*domain.ChatLog, error) {
	if caller == nil {
		return nil, perrors.NewErrUnauthenticated("authentication required", nil)
	}
	logs, err := u.chatRepo.FindByUserID(caller.ID, historyLimit)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to load chat history", err)
	}
	return logs, nil
}
