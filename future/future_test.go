// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture(t *testing.T) {
	t.Run("complete once", func(t *testing.T) {
		f := New[int]()
		assert.False(t, f.IsDone())
		assert.True(t, f.Complete(1))
		assert.False(t, f.Complete(2))
		assert.False(t, f.Fail(errors.New("late")))
		assert.True(t, f.IsDone())
		v, err := f.Result()
		assert.Equal(t, 1, v)
		assert.NoError(t, err)
	})
	t.Run("fail", func(t *testing.T) {
		boom := errors.New("boom")
		f := Failed[string](boom)
		v, err := f.Result()
		assert.Equal(t, "", v)
		assert.Same(t, boom, err)
		assert.False(t, f.IsCancelled())
	})
	t.Run("cancel", func(t *testing.T) {
		f := New[int]()
		assert.False(t, f.IsCancelled())
		assert.True(t, f.Cancel())
		assert.True(t, f.IsCancelled())
		_, err := f.Result()
		assert.ErrorIs(t, err, ErrCancelled)
	})
	t.Run("callbacks", func(t *testing.T) {
		f := New[int]()
		var order []int
		f.OnComplete(func(v int, err error) { order = append(order, v) })
		f.OnComplete(func(v int, err error) { order = append(order, v*10) })
		f.Complete(3)
		f.OnComplete(func(v int, err error) { order = append(order, v*100) })
		assert.Equal(t, []int{3, 30, 300}, order)
	})
	t.Run("await", func(t *testing.T) {
		f := New[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, f.IsDone())
		f.Complete(7)
		v, err := f.Await(context.Background())
		assert.Equal(t, 7, v)
		assert.NoError(t, err)
	})
	t.Run("concurrent resolve", func(t *testing.T) {
		f := New[int]()
		var wg sync.WaitGroup
		wins := make(chan int, 100)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if f.Complete(i) {
					wins <- i
				}
			}(i)
		}
		wg.Wait()
		close(wins)
		assert.Len(t, wins, 1)
	})
}

func TestGo(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		v, err := Go(func() (int, error) { return 5, nil }).Result()
		assert.Equal(t, 5, v)
		assert.NoError(t, err)
	})
	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Go(func() (int, error) { return 0, boom }).Result()
		assert.Same(t, boom, err)
	})
	t.Run("panic", func(t *testing.T) {
		_, err := Go(func() (int, error) { panic("ouch") }).Result()
		var ee *ExecutionError
		require.ErrorAs(t, err, &ee)
		assert.Contains(t, ee.Error(), "ouch")
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	assert.Nil(t, Unwrap(nil))
	assert.Same(t, cause, Unwrap(cause))
	assert.Same(t, cause, Unwrap(&ExecutionError{Err: cause}))
	assert.Same(t, cause, Unwrap(&ExecutionError{Err: &ExecutionError{Err: cause}}))
}
