// Package historian drains the action queue into Postgres and marks idle games abandoned.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const popTimeout = 3 * time.Second

// Source yields queued action records. Pop returns (nil, nil) when nothing arrived in time.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*cache.ActionRecord, error)
}

// Sink stores action records.
type Sink interface {
	InsertActions(ctx context.Context, records []cache.ActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// PostgresSink writes into the games and game_actions tables.
type PostgresSink struct {
	Pool *pgxpool.Pool
}

func (s PostgresSink) InsertActions(ctx context.Context, records []cache.ActionRecord) error {
	return database.InsertActions(ctx, s.Pool, records)
}

func (s PostgresSink) MarkAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	return database.MarkGameAbandoned(ctx, s.Pool, gameID)
}

// Options configures a Service.
type Options struct {
	BatchSize  int
	FlushDelay time.Duration
	// Inactivity is how long a game may go without actions before it is marked abandoned.
	Inactivity time.Duration
	Logger     *logrus.Logger
}

// Service batches records from a Source into a Sink.
type Service struct {
	src    Source
	sink   Sink
	opts   Options
	logger *logrus.Logger
	now    func() time.Time

	mu           sync.Mutex
	batch        []cache.ActionRecord
	lastActivity map[uuid.UUID]time.Time
}

func New(src Source, sink Sink, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 2 * time.Second
	}
	if opts.Inactivity <= 0 {
		opts.Inactivity = 30 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		src:          src,
		sink:         sink,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
		batch:        make([]cache.ActionRecord, 0, opts.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run consumes until ctx is done, then flushes what is left.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("uno-historian service started.")
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return s.readLoop(ctx) })
	eg.Go(func() error { return s.tick(ctx, s.opts.FlushDelay, s.Flush) })
	eg.Go(func() error { return s.tick(ctx, s.sweepInterval(), s.SweepInactive) })
	err := eg.Wait()

	// ctx is canceled by now
	final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Flush(final)
	s.logger.Info("uno-historian shutting down.")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) sweepInterval() time.Duration {
	if s.opts.Inactivity < time.Minute {
		return s.opts.Inactivity
	}
	return time.Minute
}

func (s *Service) tick(ctx context.Context, every time.Duration, fn func(context.Context)) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rec, err := s.src.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WithError(err).Error("pop action record")
			continue
		}
		if rec == nil {
			continue
		}
		s.Add(ctx, *rec)
	}
}

// Add queues rec and flushes once the batch is full.
func (s *Service) Add(ctx context.Context, rec cache.ActionRecord) {
	s.mu.Lock()
	if rec.ActionType == "game_won" {
		delete(s.lastActivity, rec.GameID)
	} else {
		s.lastActivity[rec.GameID] = s.now()
	}
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.mu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch in one transaction. A failed batch is kept for the next try.
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]cache.ActionRecord, 0, s.opts.BatchSize)
	s.mu.Unlock()

	if err := s.sink.InsertActions(ctx, pending); err != nil {
		s.logger.WithError(err).Errorf("flush of %d actions failed", len(pending))
		s.mu.Lock()
		s.batch = append(pending, s.batch...)
		s.mu.Unlock()
		return
	}
	s.logger.Debugf("Flushed %d actions to DB.", len(pending))
}

// SweepInactive marks every game idle for longer than Inactivity as abandoned.
func (s *Service) SweepInactive(ctx context.Context) {
	now := s.now()
	var idle []uuid.UUID
	s.mu.Lock()
	for id, last := range s.lastActivity {
		if now.Sub(last) > s.opts.Inactivity {
			idle = append(idle, id)
			delete(s.lastActivity, id)
		}
	}
	s.mu.Unlock()

	if len(idle) == 0 {
		return
	}
	// actions for these games must reach the table first
	s.Flush(ctx)
	for _, id := range idle {
		marked, err := s.sink.MarkAbandoned(ctx, id)
		if err != nil {
			s.logger.WithError(err).Errorf("failed to mark game %s abandoned", id)
			continue
		}
		if marked {
			s.logger.Infof("Marked game %s as 'abandoned' due to inactivity.", id)
		}
	}
}
