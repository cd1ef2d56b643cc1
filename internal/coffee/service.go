// Package coffee runs machine operations against a store: it loads the
// record, applies a domain operation and saves the result, with tracing,
// logging and metrics around each step.
package coffee

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"coffeemachine/internal/domain"
	"coffeemachine/internal/platform/observability"
	"coffeemachine/internal/storage"
)

// Operation names used for spans, logs and metrics.
const (
	OpStatus     = "status"
	OpFillWater  = "fill_water"
	OpFillCoffee = "fill_coffee"
	OpBrew       = "brew"
)

// Result is what a successful mutating operation reports back.
type Result struct {
	Message string       `json:"message"`
	State   domain.State `json:"state"`
}

// Service applies machine operations to the stored record.
//
// Load, mutate and save run under one mutex, so callers sharing a Service
// never lose each other's updates. Two processes on the same backend still
// race; the last save wins.
type Service struct {
	store    storage.Store
	logger   observability.Logger
	tracer   observability.Tracer
	recorder observability.Recorder

	mu sync.Mutex
}

// NewService wires a Service. recorder may be nil.
func NewService(store storage.Store, logger observability.Logger, tracer observability.Tracer, recorder observability.Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		logger:   logger,
		tracer:   tracer,
		recorder: recorder,
	}
}

// Status returns the current record.
func (s *Service) Status(ctx context.Context) (domain.State, error) {
	ctx, span := s.tracer.Start(ctx, "machine."+OpStatus)
	defer span.End()
	started := time.Now()

	s.mu.Lock()
	state, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		merr := domain.Unexpected("reading machine status", err)
		s.finish(span, OpStatus, started, domain.State{}, merr)
		return domain.State{}, merr
	}

	s.finish(span, OpStatus, started, state, nil)
	return state, nil
}

// Recipes returns the drink catalog.
func (s *Service) Recipes() map[string]domain.Recipe {
	return domain.Recipes()
}

// FillWater adds amount ml of water. A nil amount is reported as missing.
func (s *Service) FillWater(ctx context.Context, amount *int) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "machine."+OpFillWater)
	defer span.End()
	started := time.Now()

	if amount == nil {
		err := domain.MissingWaterAmount()
		s.finish(span, OpFillWater, started, domain.State{}, err)
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("machine.amount_ml", *amount))

	state, err := s.apply(ctx, "filling water", func(st domain.State) (domain.State, error) {
		return domain.FillWater(st, *amount)
	})
	s.finish(span, OpFillWater, started, state, err)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("💧 Water filled", zap.Int("amount_ml", *amount), zap.Int("water_ml", state.WaterML))
	return Result{Message: fmt.Sprintf("Filled %d ml water.", *amount), State: state}, nil
}

// FillCoffee adds amount g of coffee. A nil amount is reported as missing.
func (s *Service) FillCoffee(ctx context.Context, amount *int) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "machine."+OpFillCoffee)
	defer span.End()
	started := time.Now()

	if amount == nil {
		err := domain.MissingCoffeeAmount()
		s.finish(span, OpFillCoffee, started, domain.State{}, err)
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("machine.amount_g", *amount))

	state, err := s.apply(ctx, "filling coffee", func(st domain.State) (domain.State, error) {
		return domain.FillCoffee(st, *amount)
	})
	s.finish(span, OpFillCoffee, started, state, err)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("🫘 Coffee filled", zap.Int("amount_g", *amount), zap.Int("coffee_g", state.CoffeeG))
	return Result{Message: fmt.Sprintf("Filled %d g coffee.", *amount), State: state}, nil
}

// Brew makes one drink from the catalog.
func (s *Service) Brew(ctx context.Context, drink string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "machine."+OpBrew)
	defer span.End()
	started := time.Now()

	span.SetAttributes(attribute.String("machine.drink", drink))

	state, err := s.apply(ctx, "brewing", func(st domain.State) (domain.State, error) {
		return domain.Brew(st, drink)
	})
	s.finish(span, OpBrew, started, state, err)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("☕ Drink brewed",
		zap.String("drink", drink),
		zap.Int("water_ml", state.WaterML),
		zap.Int("coffee_g", state.CoffeeG),
	)
	return Result{Message: fmt.Sprintf("Enjoy your %s!", domain.DisplayName(drink)), State: state}, nil
}

// apply runs load, op and save as one step. Nothing is saved when op fails.
func (s *Service) apply(ctx context.Context, verb string, op func(domain.State) (domain.State, error)) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Load(ctx)
	if err != nil {
		return domain.State{}, domain.Unexpected(verb, err)
	}

	next, err := op(current)
	if err != nil {
		return current, err
	}

	if err := s.store.Save(ctx, next); err != nil {
		return current, domain.Unexpected(verb, err)
	}
	return next, nil
}

func (s *Service) finish(span trace.Span, operation string, started time.Time, state domain.State, err error) {
	elapsed := time.Since(started).Seconds()

	if err != nil {
		kind := domain.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("machine.error_kind", kind.String()))
		s.recorder.ObserveOperation(operation, kind.String(), elapsed)

		if kind == domain.KindUnexpected {
			s.logger.Error("❌ Machine operation failed", zap.String("operation", operation), zap.Error(err))
		} else {
			s.logger.Info("⚠️ Machine operation rejected",
				zap.String("operation", operation),
				zap.String("kind", kind.String()),
				zap.String("reason", err.Error()),
			)
		}
		return
	}

	span.SetAttributes(
		attribute.Int("machine.water_ml", state.WaterML),
		attribute.Int("machine.coffee_g", state.CoffeeG),
	)
	span.SetStatus(codes.Ok, operation+" succeeded")
	s.recorder.ObserveOperation(operation, "ok", elapsed)
	s.recorder.SetLevels(state.WaterML, state.CoffeeG)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, float64) {}
func (nopRecorder) SetLevels(int, int)                       {}
