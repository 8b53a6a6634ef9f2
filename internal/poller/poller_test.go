package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingClearer struct {
	mu      sync.Mutex
	cleared []string
	err     error
}

func (c *recordingClearer) ClearCart(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.cleared = append(c.cleared, sessionID)
	return nil
}

func (c *recordingClearer) sessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cleared...)
}

// chanReader serves queued messages, then blocks until ctx is done.
type chanReader struct {
	msgs   chan kafka.Message
	closed bool
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) Close() error {
	r.closed = true
	return nil
}

func TestHandle_ClearsCart(t *testing.T) {
	carts := &recordingClearer{}
	p := newPoller(carts, &chanReader{}, nil)

	err := p.handle(context.Background(), kafka.Message{Value: []byte(`{"session_id":"s1","order_id":"o1"}`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, carts.sessions())
}

func TestHandle_InvalidPayloads(t *testing.T) {
	carts := &recordingClearer{}
	p := newPoller(carts, &chanReader{}, nil)

	for _, payload := range []string{`not json`, `{"order_id":"o1"}`, `{"session_id":42}`} {
		err := p.handle(context.Background(), kafka.Message{Value: []byte(payload)})
		assert.Error(t, err, payload)
	}
	assert.Empty(t, carts.sessions())
}

func TestHandle_ClearError(t *testing.T) {
	carts := &recordingClearer{err: errors.New("mongo down")}
	p := newPoller(carts, &chanReader{}, nil)

	err := p.handle(context.Background(), kafka.Message{Value: []byte(`{"session_id":"s1"}`)})
	assert.ErrorContains(t, err, "mongo down")
}

func TestRun_ProcessesUntilCancelled(t *testing.T) {
	carts := &recordingClearer{}
	reader := &chanReader{msgs: make(chan kafka.Message, 3)}
	core, logs := observer.New(zapcore.InfoLevel)
	p := newPoller(carts, reader, zap.New(core))

	reader.msgs <- kafka.Message{Value: []byte(`{"session_id":"s1","order_id":"o1"}`)}
	reader.msgs <- kafka.Message{Value: []byte(`garbage`)}
	reader.msgs <- kafka.Message{Value: []byte(`{"session_id":"s2","order_id":"o2"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(carts.sessions()) == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, []string{"s1", "s2"}, carts.sessions())
	assert.Equal(t, 1, logs.FilterMessage("checkout event not applied").Len())

	p.Close()
	assert.True(t, reader.closed)
}

// failingReader fails a fixed number of reads, then reports io.EOF as a
// closed kafka reader does.
type failingReader struct {
	failures int32
	reads    atomic.Int32
}

func (r *failingReader) ReadMessage(context.Context) (kafka.Message, error) {
	if r.reads.Add(1) <= r.failures {
		return kafka.Message{}, errors.New("broker unreachable")
	}
	return kafka.Message{}, io.EOF
}

func (r *failingReader) Close() error { return nil }

func runWithTimeout(t *testing.T, ctx context.Context, p *Poller) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_StopsWhenReaderClosed(t *testing.T) {
	reader := &failingReader{}
	p := newPoller(&recordingClearer{}, reader, nil)

	runWithTimeout(t, context.Background(), p)

	assert.Equal(t, int32(1), reader.reads.Load())
}

func TestRun_BacksOffOnReadErrors(t *testing.T) {
	reader := &failingReader{failures: 3}
	core, logs := observer.New(zapcore.WarnLevel)
	p := newPoller(&recordingClearer{}, reader, zap.New(core))
	p.backoff = 50 * time.Millisecond

	start := time.Now()
	runWithTimeout(t, context.Background(), p)

	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, int32(4), reader.reads.Load())
	assert.Equal(t, 3, logs.FilterMessage("error reading message").Len())
}

func TestRun_CancelInterruptsBackoff(t *testing.T) {
	reader := &failingReader{failures: 1 << 20}
	p := newPoller(&recordingClearer{}, reader, nil)
	p.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	runWithTimeout(t, ctx, p)

	assert.Equal(t, int32(1), reader.reads.Load())
}
