/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package submitter turns node-side intents ("this proof must land on
// the ledger now") into transactions, watches for their inclusion, and
// escalates the tip on every timed-out attempt. One retry loop runs
// per in-flight intent on a bounded worker pool.
package submitter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

const (
	// DefaultWorkers bounds concurrently watched submissions.
	DefaultWorkers = 16

	// CompletedCacheSize bounds the remembered included intents.
	CompletedCacheSize = 512
)

var (
	ErrExhausted = errors.New("retry budget exhausted")
	ErrStale     = errors.New("intent no longer valid")
	ErrClosed    = errors.New("submitter closed")
)

// Receipt identifies an included transaction.
type Receipt struct {
	TxHash    string
	BlockHash string
}

// Conn is the narrow ledger-write surface the submitter consumes.
// SubmitExtrinsic signs and submits the encoded call with the given
// tip and waits up to timeout for inclusion.
type Conn interface {
	SubmitExtrinsic(ctx context.Context, payload []byte, tip uint64, timeout time.Duration) (Receipt, error)
}

// Outcome classifies how a submission ended.
type Outcome uint8

const (
	// Included means the transaction landed in a block.
	Included Outcome = iota

	// PermanentFailure means the retry budget ran out.
	PermanentFailure

	// Stale means the intent stopped being valid before inclusion and
	// the submission was discarded without another attempt.
	Stale
)

// Result is the terminal state of one submission.
type Result struct {
	Outcome  Outcome
	Receipt  Receipt
	Attempts uint32
	Tip      uint64
	Err      error
}

// Submission is one outstanding intent and its retry progress.
type Submission struct {
	Id        uuid.UUID
	Attempts  uint32
	Tip       uint64
	StartedAt time.Time
}

// Submitter owns the in-flight submission set. Each Submit call runs
// its submit-watch-retry loop on the shared pool; already-included
// payloads are answered from the completed cache without touching the
// ledger again.
type Submitter struct {
	conn  Conn
	strat Strategy
	pool  *ants.Pool

	lock     sync.Mutex
	closed   bool
	inflight map[uuid.UUID]*Submission
	done     *lru.Cache[[32]byte, Receipt]
}

// NewSubmitter builds a submitter over conn with the given default
// strategy and at most workers concurrent submission loops.
func NewSubmitter(conn Conn, strat Strategy, workers int) (*Submitter, error) {
	if conn == nil {
		return nil, errors.New("[NewSubmitter] nil conn")
	}
	if err := strat.Check(); err != nil {
		return nil, errors.Wrap(err, "[NewSubmitter]")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSubmitter] NewPool")
	}
	done, err := lru.New[[32]byte, Receipt](CompletedCacheSize)
	if err != nil {
		pool.Release()
		return nil, errors.Wrap(err, "[NewSubmitter] lru.New")
	}
	return &Submitter{
		conn:     conn,
		strat:    strat,
		pool:     pool,
		inflight: make(map[uuid.UUID]*Submission),
		done:     done,
	}, nil
}

// Submit runs the retry loop for payload with the default strategy and
// blocks until a terminal result.
func (s *Submitter) Submit(ctx context.Context, payload []byte) (Result, error) {
	return s.SubmitWith(ctx, payload, s.strat)
}

// SubmitWith is Submit with a per-intent strategy, for callers whose
// intents carry their own retry budget or staleness check.
func (s *Submitter) SubmitWith(ctx context.Context, payload []byte, strat Strategy) (Result, error) {
	if err := strat.Check(); err != nil {
		return Result{}, errors.Wrap(err, "[SubmitWith]")
	}

	digest := utils.CalcBlake2b256(payload)
	if receipt, ok := s.done.Get(digest); ok {
		return Result{Outcome: Included, Receipt: receipt}, nil
	}

	sub := &Submission{
		Id:        uuid.New(),
		Tip:       strat.Tip(0),
		StartedAt: time.Now(),
	}

	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return Result{}, errors.Wrap(ErrClosed, "[SubmitWith]")
	}
	s.inflight[sub.Id] = sub
	s.lock.Unlock()

	defer func() {
		s.lock.Lock()
		delete(s.inflight, sub.Id)
		s.lock.Unlock()
	}()

	resultCh := make(chan Result, 1)
	err := s.pool.Submit(func() {
		resultCh <- s.run(ctx, sub, payload, digest, strat)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "[SubmitWith] pool.Submit")
	}

	select {
	case result := <-resultCh:
		return result, nil
	case <-ctx.Done():
		// the loop notices the cancellation before its next attempt
		return <-resultCh, nil
	}
}

// run is the submit-watch-retry loop of a single intent. Attempt 0 is
// the first submission; afterwards the intent is re-validated before
// every resubmission and the tip escalates per the strategy.
func (s *Submitter) run(ctx context.Context, sub *Submission, payload []byte, digest [32]byte, strat Strategy) Result {
	var lastErr error
	for attempt := uint32(0); ; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return Result{Outcome: Stale, Attempts: attempt, Tip: sub.Tip, Err: errors.Wrap(ErrStale, err.Error())}
			}
			if strat.ShouldRetry != nil && !strat.ShouldRetry() {
				return Result{Outcome: Stale, Attempts: attempt, Tip: sub.Tip, Err: ErrStale}
			}
			if attempt > strat.MaxRetries {
				err := errors.Wrapf(ErrExhausted, "%d attempts, last error: %v", attempt, lastErr)
				return Result{Outcome: PermanentFailure, Attempts: attempt, Tip: sub.Tip, Err: err}
			}
		}

		tip := strat.Tip(attempt)

		s.lock.Lock()
		sub.Attempts = attempt
		sub.Tip = tip
		s.lock.Unlock()

		receipt, err := s.conn.SubmitExtrinsic(ctx, payload, tip, strat.Timeout)
		if err == nil {
			s.done.Add(digest, receipt)
			return Result{Outcome: Included, Receipt: receipt, Attempts: attempt + 1, Tip: tip}
		}
		lastErr = err
	}
}

// Inflight snapshots the outstanding submissions, for status surfaces.
func (s *Submitter) Inflight() []Submission {
	s.lock.Lock()
	defer s.lock.Unlock()
	list := make([]Submission, 0, len(s.inflight))
	for _, sub := range s.inflight {
		list = append(list, *sub)
	}
	return list
}

// Completed reports how many included intents the cache remembers.
func (s *Submitter) Completed() int {
	return s.done.Len()
}

// Close stops accepting submissions and releases the worker pool.
// In-flight loops run to completion.
func (s *Submitter) Close() {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	s.lock.Unlock()
	s.pool.Release()
}
