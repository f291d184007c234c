// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"sync/atomic"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Lazy is a lazily-initialized value for synchronous callers.
// Contention is resolved by spin-waiting: a caller that loses the claim
// busy-waits with adaptive backoff until the winner publishes.
//
// A Lazy must not be copied after first use. The zero value is not usable;
// construct with [New] or [Resolved].
type Lazy[T any] struct {
	state  atomic.Uint32
	serial Serial
	f      func() T
	value  T
}

// New returns an uninitialized cell carrying f.
// f runs at most once, on the first [Lazy.Get] or [Lazy.IntoInner].
func New[T any](f func() T) *Lazy[T] {
	return &Lazy[T]{serial: nextSerial(), f: f}
}

// Resolved returns a cell that is already initialized with v.
// No initializer exists and none will ever run.
func Resolved[T any](v T) *Lazy[T] {
	c := &Lazy[T]{serial: nextSerial(), value: v}
	c.state.Store(stateReady)
	return c
}

// Serial returns the serial number assigned to this cell.
func (c *Lazy[T]) Serial() Serial {
	return c.serial
}

// IsUninit reports whether the initializer has not been claimed yet.
func (c *Lazy[T]) IsUninit() bool {
	return c.state.Load() == stateUninit
}

// IsInitializing reports whether the initializer is currently running.
func (c *Lazy[T]) IsInitializing() bool {
	return c.state.Load() == stateInitializing
}

// HasInit reports whether the value has been published.
func (c *Lazy[T]) HasInit() bool {
	return c.state.Load() == stateReady
}

// Get returns a pointer to the initialized value, running the initializer
// first if no one has yet. Exactly one caller wins the claim and runs the
// initializer; all others spin until it publishes. There is no timeout:
// an initializer that never returns deadlocks every caller, which is a
// contract requirement on the initializer, not a recoverable condition.
func (c *Lazy[T]) Get() *T {
	if c.state.CompareAndSwap(stateUninit, stateInitializing) {
		f := c.f
		c.f = nil
		c.value = f()
		if prior := c.state.Swap(stateReady); prior != stateInitializing {
			panic(corruptedState)
		}
		return &c.value
	}

	var bo iox.Backoff
	for {
		switch c.state.Load() {
		case stateReady:
			return &c.value
		case stateInitializing:
			bo.Wait()
		default:
			panic(corruptedState)
		}
	}
}

// TryGet returns a pointer to the value if it has been published.
// It never triggers initialization and never blocks.
func (c *Lazy[T]) TryGet() (*T, bool) {
	if c.state.Load() == stateReady {
		return &c.value, true
	}
	return nil, false
}

// IntoInner consumes the cell and returns the value, running the
// initializer synchronously if it never ran. The caller must hold the cell
// exclusively. If another goroutine is mid-initialization at consumption
// time, IntoInner blocks for publication and then takes the value.
func (c *Lazy[T]) IntoInner() T {
	switch c.state.Load() {
	case stateUninit:
		f := c.f
		c.f = nil
		return f()
	case stateReady:
		return c.value
	}
	c.waitReady()
	return c.value
}

// TryIntoInner consumes the cell, returning Left with the unrun initializer
// if it was never triggered, or Right with the value otherwise. The caller
// must hold the cell exclusively. A cell caught mid-initialization is waited
// out and yields Right, the same policy as [Lazy.IntoInner].
func (c *Lazy[T]) TryIntoInner() kont.Either[func() T, T] {
	switch c.state.Load() {
	case stateUninit:
		f := c.f
		c.f = nil
		return kont.Left[func() T, T](f)
	case stateReady:
		return kont.Right[func() T](c.value)
	}
	c.waitReady()
	return kont.Right[func() T](c.value)
}

// waitReady spins until the in-flight initializer publishes.
func (c *Lazy[T]) waitReady() {
	var bo iox.Backoff
	for c.state.Load() == stateInitializing {
		bo.Wait()
	}
	if c.state.Load() != stateReady {
		panic(corruptedState)
	}
}
