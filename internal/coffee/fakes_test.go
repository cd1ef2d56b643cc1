package coffee

import (
	"context"
	"errors"
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"coffeemachine/internal/domain"
	"coffeemachine/internal/storage"
)

var errDiskFull = errors.New("disk full")

// flakyStore wraps a memory store and fails on demand.
type flakyStore struct {
	*storage.MemoryStore
	loadErr error
	saveErr error
	saves   int
}

func (s *flakyStore) Load(ctx context.Context) (domain.State, error) {
	if s.loadErr != nil {
		return domain.State{}, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *flakyStore) Save(ctx context.Context, state domain.State) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	return s.MemoryStore.Save(ctx, state)
}

type recordedOp struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu     sync.Mutex
	ops    []recordedOp
	water  int
	coffee int
}

func (r *fakeRecorder) ObserveOperation(operation, outcome string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation: operation, outcome: outcome})
}

func (r *fakeRecorder) SetLevels(waterML, coffeeG int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.water, r.coffee = waterML, coffeeG
}

func newTestService(t *testing.T, initial domain.State) (*Service, *flakyStore, *fakeRecorder) {
	t.Helper()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(initial)}
	rec := &fakeRecorder{}
	svc := NewService(store, zap.NewNop(), noop.NewTracerProvider().Tracer("test"), rec)
	return svc, store, rec
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []kafkago.Message
	err      error
}

func (p *fakeProducer) WriteMessage(_ context.Context, msg kafkago.Message) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

// fakeConsumer hands out queued results in order, then blocks until the
// context is done.
type fakeConsumer struct {
	results []consumerResult
}

type consumerResult struct {
	msg *kafkago.Message
	err error
}

func (c *fakeConsumer) ReadMessage(ctx context.Context) (*kafkago.Message, error) {
	if len(c.results) > 0 {
		next := c.results[0]
		c.results = c.results[1:]
		return next.msg, next.err
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *fakeConsumer) Close() error { return nil }

func intPtr(n int) *int { return &n }

func stocked(water, coffee int) domain.State {
	s := domain.NewState()
	s.WaterML = water
	s.CoffeeG = coffee
	return s
}
