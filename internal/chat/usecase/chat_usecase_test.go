package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/chat/repository"
	snippetdomain "syncode-backend/internal/snippet/domain"
	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAssistant struct {
	answer string
	err    error
	system string
	prompt string
}

func (f *fakeAssistant) Answer(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.answer, f.err
}

type fakeRemote struct {
	mu        sync.Mutex
	text      string
	err       error
	bearers   []string
	uploaded  string
	snippetID string
}

func (f *fakeRemote) Retrieve(_ context.Context, bearer, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bearers = append(f.bearers, bearer)
	return f.text, f.err
}

func (f *fakeRemote) UploadDocument(_ context.Context, bearer, filename string, content io.Reader) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bearers = append(f.bearers, bearer)
	data, _ := io.ReadAll(content)
	f.uploaded = filename + ":" + string(data)
	return json.RawMessage(`{"ok":true}`), f.err
}

func (f *fakeRemote) UploadSnippet(_ context.Context, bearer, snippetID, _ string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bearers = append(f.bearers, bearer)
	f.snippetID = snippetID
	return json.RawMessage(`{"ok":true}`), f.err
}

var alice = &authdomain.User{ID: "alice", Role: authdomain.RoleUser}

func TestAsk_LocalStoreContext(t *testing.T) {
	store := retrieval.NewMemoryStore()
	require.NoError(t, store.Add(context.Background(), retrieval.Document{ID: "d1", Text: "binary search in go"}))

	assistant := &fakeAssistant{answer: `{"code":"func f(){}","explanation":"does it"}`}
	uc := NewChatUsecase(repository.NewMemoryChatLogRepository(), assistant, store, time.Second, zap.NewNop())

	res, err := uc.Ask(context.Background(), alice, "tok", "binary search")
	require.NoError(t, err)
	assert.Equal(t, "func f(){}", res.Answer.Code)
	assert.Equal(t, "does it", res.Answer.Explanation)
	assert.Equal(t, "binary search in go", res.RetrievedDocs)
	assert.Contains(t, assistant.prompt, "Context: binary search in go\nQuestion: binary search")
	assert.Equal(t, systemPrompt, assistant.system)

	logs, err := uc.GetHistory(alice)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "d1", logs[0].Snippets[0].ID)
}

func TestAsk_RemoteGetsBearer(t *testing.T) {
	remote := &fakeRemote{text: "remote ctx"}
	uc := NewChatUsecase(repository.NewMemoryChatLogRepository(), &fakeAssistant{answer: "{}"}, nil, time.Second, zap.NewNop())
	uc.SetRemoteIndex(remote)

	res, err := uc.Ask(context.Background(), alice, "tok", "q")
	require.NoError(t, err)
	assert.Equal(t, "remote ctx", res.RetrievedDocs)
	assert.Equal(t, []string{"tok"}, remote.bearers)
}

func TestAsk_NonJSONAnswerBecomesCode(t *testing.T) {
	uc := NewChatUsecase(repository.NewMemoryChatLogRepository(), &fakeAssistant{answer: "print('hi')"}, retrieval.NewMemoryStore(), time.Second, zap.NewNop())

	res, err := uc.Ask(context.Background(), alice, "", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", res.Answer.Code)
	assert.Empty(t, res.Answer.Explanation)
}

func TestAsk_Errors(t *testing.T) {
	repo := repository.NewMemoryChatLogRepository()

	uc := NewChatUsecase(repo, &fakeAssistant{}, nil, time.Second, zap.NewNop())
	_, err := uc.Ask(context.Background(), nil, "", "q")
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeUnauthenticated))

	_, err = uc.Ask(context.Background(), alice, "", "  ")
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeInvalidRequest))

	uc = NewChatUsecase(repo, &fakeAssistant{err: errors.New("503")}, nil, time.Second, zap.NewNop())
	_, err = uc.Ask(context.Background(), alice, "", "q")
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeUpstreamUnavailable))

	uc = NewChatUsecase(repo, &fakeAssistant{}, nil, time.Second, zap.NewNop())
	uc.SetRemoteIndex(&fakeRemote{err: errors.New("down")})
	_, err = uc.Ask(context.Background(), alice, "", "q")
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeUpstreamUnavailable))
}

func TestParseAnswer_StripsFence(t *testing.T) {
	a := parseAnswer("```json\n{\"code\":\"x\",\"explanation\":\"y\"}\n```")
	assert.Equal(t, "x", a.Code)
	assert.Equal(t, "y", a.Explanation)
}

func TestUploadDocument(t *testing.T) {
	store := retrieval.NewMemoryStore()
	uc := NewChatUsecase(repository.NewMemoryChatLogRepository(), nil, store, time.Second, zap.NewNop())

	_, err := uc.UploadDocument(context.Background(), alice, "", "", nil)
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeInvalidRequest))

	out, err := uc.UploadDocument(context.Background(), alice, "", "notes.md", strings.NewReader("graph traversal notes"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Document indexed")
	assert.Equal(t, 1, store.Len())

	remote := &fakeRemote{}
	uc.SetRemoteIndex(remote)
	out, err = uc.UploadDocument(context.Background(), alice, "tok", "a.txt", strings.NewReader("abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
	assert.Equal(t, "a.txt:abc", remote.uploaded)
}

func TestAddSnippet(t *testing.T) {
	store := retrieval.NewMemoryStore()
	uc := NewChatUsecase(repository.NewMemoryChatLogRepository(), nil, store, time.Second, zap.NewNop())

	_, err := uc.AddSnippet(context.Background(), alice, "", "s1", "")
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeInvalidRequest))

	_, err = uc.AddSnippet(context.Background(), alice, "", "s1", "fmt.Println(1)")
	require.NoError(t, err)
	docs, _ := store.Query(context.Background(), "println", 3)
	require.Len(t, docs, 1)
	assert.Equal(t, "snippet-s1.txt", docs[0].ID)

	remote := &fakeRemote{}
	uc.SetRemoteIndex(remote)
	_, err = uc.AddSnippet(context.Background(), alice, "tok", "s2", "x")
	require.NoError(t, err)
	assert.Equal(t, "s2", remote.snippetID)
	assert.Equal(t, []string{"tok"}, remote.bearers)
}

func TestSnippetIndexer(t *testing.T) {
	store := retrieval.NewMemoryStore()
	idx := NewSnippetIndexer(store, 2, zap.NewNop())
	idx.Start()

	for i, code := range []string{"alpha", "beta", "gamma"} {
		ok := idx.QueueSnippet(&snippetdomain.Snippet{ID: string(rune('a' + i)), UserID: "alice", Code: code})
		require.True(t, ok)
	}
	idx.Stop()

	assert.Equal(t, 3, store.Len())
	assert.False(t, idx.QueueSnippet(&snippetdomain.Snippet{ID: "late"}))
	idx.Stop()
}
