package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"syncode-backend/pkg/perrors"
	"syncode-backend/pkg/piston"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRegistry struct {
	mu       sync.Mutex
	runtimes []piston.Runtime
	errs     []error // returned in order before succeeding
	calls    int
}

func (f *fakeRegistry) Runtimes(_ context.Context) ([]piston.Runtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.runtimes, nil
}

func (f *fakeRegistry) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var testRuntimes = []piston.Runtime{
	{Language: "python", Version: "3.10.0", Aliases: []string{"py", "py3"}},
	{Language: "javascript", Version: "18.15.0", Aliases: []string{"node-javascript", "node-js", "javascript", "js"}},
	{Language: "python", Version: "2.7.18", Aliases: []string{"py2"}},
}

func newTestResolver(reg Registry, cache RuntimeCache) *RuntimeResolver {
	return NewRuntimeResolver(reg, cache, ResolverConfig{
		Timeout:        time.Second,
		MaxTries:       3,
		InitialBackoff: time.Millisecond,
	}, zap.NewNop())
}

func TestResolveVersion(t *testing.T) {
	reg := &fakeRegistry{runtimes: testRuntimes}
	r := newTestResolver(reg, nil)

	tests := []struct {
		language string
		want     string
	}{
		{"python", "3.10.0"},
		{"py", "3.10.0"},
		{"js", "18.15.0"},
		{"javascript", "18.15.0"},
		{"py2", "2.7.18"},
	}
	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			got, err := r.ResolveVersion(context.Background(), tt.language)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVersion_IsCaseSensitive(t *testing.T) {
	r := newTestResolver(&fakeRegistry{runtimes: testRuntimes}, nil)

	_, err := r.ResolveVersion(context.Background(), "Python")
	require.Error(t, err)
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeRuntimeNotFound))
}

func TestResolveVersion_UnknownLanguageSuggests(t *testing.T) {
	r := newTestResolver(&fakeRegistry{runtimes: testRuntimes}, nil)

	_, err := r.ResolveVersion(context.Background(), "pyhton")
	require.Error(t, err)
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeRuntimeNotFound))
	assert.ErrorIs(t, err, ErrRuntimeUnknown)
	assert.Contains(t, err.Error(), `did you mean "python"`)
}

func TestResolveVersion_EmptyRegistry(t *testing.T) {
	r := newTestResolver(&fakeRegistry{runtimes: []piston.Runtime{}}, nil)

	_, err := r.ResolveVersion(context.Background(), "python")
	assert.ErrorIs(t, err, ErrRuntimeUnknown)
}

func TestResolveVersion_RegistryDown(t *testing.T) {
	down := errors.New("connection refused")
	reg := &fakeRegistry{errs: []error{down, down, down}}
	r := newTestResolver(reg, nil)

	_, err := r.ResolveVersion(context.Background(), "python")
	require.Error(t, err)
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeRuntimeNotFound))
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
	assert.Equal(t, 3, reg.Calls())
}

type blockingRegistry struct{}

func (blockingRegistry) Runtimes(ctx context.Context) ([]piston.Runtime, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResolveVersion_TimeoutIsRuntimeNotFound(t *testing.T) {
	const timeout = 80 * time.Millisecond
	r := NewRuntimeResolver(blockingRegistry{}, nil, ResolverConfig{
		Timeout:        timeout,
		MaxTries:       3,
		InitialBackoff: time.Millisecond,
	}, zap.NewNop())

	start := time.Now()
	_, err := r.ResolveVersion(context.Background(), "python")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, perrors.HasCode(err, perrors.ErrCodeRuntimeNotFound))
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestResolveVersion_RetriesTransientFailure(t *testing.T) {
	reg := &fakeRegistry{
		runtimes: testRuntimes,
		errs:     []error{&piston.RemoteError{StatusCode: http.StatusBadGateway, Body: []byte(`{}`)}},
	}
	r := newTestResolver(reg, nil)

	got, err := r.ResolveVersion(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, "3.10.0", got)
	assert.Equal(t, 2, reg.Calls())
}

func TestResolveVersion_ClientErrorIsNotRetried(t *testing.T) {
	reg := &fakeRegistry{
		errs: []error{&piston.RemoteError{StatusCode: http.StatusNotFound, Body: []byte(`{}`)}},
	}
	r := newTestResolver(reg, nil)

	_, err := r.ResolveVersion(context.Background(), "python")
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
	assert.Equal(t, 1, reg.Calls())
}

func TestRuntimes_UsesCache(t *testing.T) {
	reg := &fakeRegistry{runtimes: testRuntimes}
	cache := NewMemoryRuntimeCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	r := newTestResolver(reg, cache)

	for i := 0; i < 3; i++ {
		_, err := r.ResolveVersion(context.Background(), "python")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, reg.Calls())

	now = now.Add(2 * time.Minute)
	_, err := r.ResolveVersion(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Calls())
}

func TestMatchRuntime_FirstMatchWins(t *testing.T) {
	rts := []piston.Runtime{
		{Language: "a", Version: "1", Aliases: []string{"x"}},
		{Language: "x", Version: "2"},
	}
	rt, ok := MatchRuntime(rts, "x")
	require.True(t, ok)
	assert.Equal(t, "1", rt.Version)
}

func TestRuntimeRefresher_WarmsCache(t *testing.T) {
	reg := &fakeRegistry{runtimes: testRuntimes}
	cache := NewMemoryRuntimeCache(time.Minute)
	r := newTestResolver(reg, cache)

	refresher := NewRuntimeRefresher(r, time.Hour, zap.NewNop())
	refresher.Start()
	require.Eventually(t, func() bool { return reg.Calls() == 1 }, time.Second, 5*time.Millisecond)
	refresher.Stop()

	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRuntimeRefresher_DisabledStopsCleanly(t *testing.T) {
	reg := &fakeRegistry{runtimes: testRuntimes}
	refresher := NewRuntimeRefresher(newTestResolver(reg, nil), 0, zap.NewNop())
	refresher.Start()
	refresher.Stop()
	assert.Equal(t, 0, reg.Calls())
}
