/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package submitter

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	lock    sync.Mutex
	tips    []uint64
	handler func(call int, tip uint64) (Receipt, error)
}

func (c *fakeConn) SubmitExtrinsic(ctx context.Context, payload []byte, tip uint64, timeout time.Duration) (Receipt, error) {
	c.lock.Lock()
	call := len(c.tips)
	c.tips = append(c.tips, tip)
	c.lock.Unlock()
	return c.handler(call, tip)
}

func (c *fakeConn) calls() []uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]uint64(nil), c.tips...)
}

func testStrategy() Strategy {
	return Strategy{
		MaxRetries: 3,
		Timeout:    time.Second,
		BaseTip:    100,
		MaxTip:     500,
		Multiplier: 2,
	}
}

func TestStrategyTipCurve(t *testing.T) {
	strat := testStrategy()
	require.NoError(t, strat.Check())

	assert.Equal(t, strat.BaseTip, strat.Tip(0))
	assert.Equal(t, strat.BaseTip+strat.MaxTip, strat.Tip(strat.MaxRetries))
	for a := uint32(1); a <= strat.MaxRetries; a++ {
		assert.Greater(t, strat.Tip(a), strat.Tip(a-1), "attempt %d", a)
	}
	// clamped past the final attempt
	assert.Equal(t, strat.Tip(strat.MaxRetries), strat.Tip(strat.MaxRetries+5))

	// a tip budget of one milliunit per retry still increases strictly
	tight := Strategy{MaxRetries: 8, Timeout: time.Second, BaseTip: 10, MaxTip: 8, Multiplier: 1.5}
	require.NoError(t, tight.Check())
	for a := uint32(1); a <= tight.MaxRetries; a++ {
		assert.Greater(t, tight.Tip(a), tight.Tip(a-1), "attempt %d", a)
	}
	assert.Equal(t, tight.BaseTip+tight.MaxTip, tight.Tip(tight.MaxRetries))
}

func TestStrategyCheck(t *testing.T) {
	bad := testStrategy()
	bad.Multiplier = 1
	assert.Error(t, bad.Check())

	bad = testStrategy()
	bad.MaxRetries = 0
	assert.Error(t, bad.Check())

	bad = testStrategy()
	bad.Timeout = 0
	assert.Error(t, bad.Check())

	bad = testStrategy()
	bad.MaxTip = 2
	assert.Error(t, bad.Check())
}

func TestRetriesEscalateTips(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		if call < 3 {
			return Receipt{}, errors.New("inclusion timeout")
		}
		return Receipt{TxHash: "0xaa", BlockHash: "0xbb"}, nil
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	result, err := sub.Submit(context.Background(), []byte("proof payload"))
	require.NoError(t, err)
	assert.Equal(t, Included, result.Outcome)
	assert.Equal(t, uint32(4), result.Attempts)
	assert.Equal(t, "0xaa", result.Receipt.TxHash)

	tips := conn.calls()
	require.Len(t, tips, 4)
	assert.Equal(t, uint64(100), tips[0])
	for i := 1; i < len(tips); i++ {
		assert.Greater(t, tips[i], tips[i-1])
	}
	assert.Equal(t, uint64(600), tips[3])
}

func TestPermanentFailureAfterMaxRetries(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		return Receipt{}, errors.New("inclusion timeout")
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	result, err := sub.Submit(context.Background(), []byte("doomed payload"))
	require.NoError(t, err)
	assert.Equal(t, PermanentFailure, result.Outcome)
	assert.True(t, errors.Is(result.Err, ErrExhausted))
	assert.Len(t, conn.calls(), 4)
	assert.Empty(t, sub.Inflight())
}

func TestStaleIntentStopsRetrying(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		return Receipt{}, errors.New("inclusion timeout")
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	strat := testStrategy()
	strat.ShouldRetry = func() bool { return false }

	result, err := sub.SubmitWith(context.Background(), []byte("expired request"), strat)
	require.NoError(t, err)
	assert.Equal(t, Stale, result.Outcome)
	assert.True(t, errors.Is(result.Err, ErrStale))
	assert.Len(t, conn.calls(), 1)
}

func TestCancellationBeforeResubmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		cancel()
		return Receipt{}, errors.New("inclusion timeout")
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	result, err := sub.Submit(ctx, []byte("cancelled payload"))
	require.NoError(t, err)
	assert.Equal(t, Stale, result.Outcome)
	assert.True(t, errors.Is(result.Err, ErrStale))
	assert.Len(t, conn.calls(), 1)
}

func TestIncludedIntentIsIdempotent(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		return Receipt{TxHash: "0xcc", BlockHash: "0xdd"}, nil
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	payload := []byte("confirm storing")
	first, err := sub.Submit(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, Included, first.Outcome)
	require.Len(t, conn.calls(), 1)

	// the resubmission is answered from the completed cache
	second, err := sub.Submit(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, Included, second.Outcome)
	assert.Equal(t, first.Receipt, second.Receipt)
	assert.Len(t, conn.calls(), 1)
	assert.Equal(t, 1, sub.Completed())
}

func TestConcurrentIntents(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		if tip == 100 {
			return Receipt{}, errors.New("inclusion timeout")
		}
		return Receipt{TxHash: "0xee"}, nil
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)
	defer sub.Close()

	const intents = 8
	var wg sync.WaitGroup
	results := make([]Result, intents)
	for i := 0; i < intents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("intent %d", i))
			results[i], _ = sub.Submit(context.Background(), payload)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		assert.Equal(t, Included, result.Outcome, "intent %d", i)
		assert.Equal(t, uint32(2), result.Attempts, "intent %d", i)
	}
	assert.Equal(t, intents, sub.Completed())
	assert.Empty(t, sub.Inflight())
}

func TestSubmitAfterClose(t *testing.T) {
	conn := &fakeConn{handler: func(call int, tip uint64) (Receipt, error) {
		return Receipt{TxHash: "0xff"}, nil
	}}
	sub, err := NewSubmitter(conn, testStrategy(), 4)
	require.NoError(t, err)

	sub.Close()
	_, err = sub.Submit(context.Background(), []byte("late payload"))
	assert.True(t, errors.Is(err, ErrClosed))
}
