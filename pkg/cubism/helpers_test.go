package cubism

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend/backendtest"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/logging"
)

// syncBuffer lets the slog handler and the test read the same log output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(out *syncBuffer) logging.Logger {
	return logging.New(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func newTestLibrary(t *testing.T, spec backendtest.ModelSpec) (*Library, *backendtest.Fake) {
	t.Helper()
	fake := backendtest.New(spec)
	return newLibrary(Config{}, fake), fake
}

func newTestModel(t *testing.T) (*Model, *backendtest.Fake) {
	t.Helper()
	lib, fake := newTestLibrary(t, backendtest.SampleSpec())
	moc, err := lib.ReviveMoc(backendtest.MocBytes(uint8(backend.MocVersion40), 256))
	require.NoError(t, err)
	model, err := moc.InitializeModel()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, model.Close())
		require.NoError(t, moc.Close())
		require.NoError(t, lib.Close())
	})
	return model, fake
}
