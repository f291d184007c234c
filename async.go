// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"sync/atomic"

	"code.hybscloud.com/kont"
)

// Async is a lazily-initialized value for cooperative callers.
// It shares the Lazy state machine, but a caller that loses the claim
// suspends instead of spinning: the losing computation parks as a
// kont suspension and is resumed through the cell's single-slot [Waker]
// when the winner publishes.
//
// The initializer is itself a computation: the claim winner runs it under
// the caller's own handler or runtime, so it may perform effects of its
// own, including awaiting other cells.
//
// An Async must not be copied after first use. The zero value is not
// usable; construct with [NewAsync], [NewAsyncEff] or [ResolvedAsync].
type Async[T any] struct {
	state  atomic.Uint32
	waker  Waker
	serial Serial
	f      func() kont.Expr[T]
	value  T
}

// NewAsync returns an uninitialized cell carrying f.
// f is called at most once, by the caller that wins the claim; the
// computation it returns is run to completion before the value publishes.
func NewAsync[T any](f func() kont.Expr[T]) *Async[T] {
	return &Async[T]{serial: nextSerial(), f: f}
}

// NewAsyncEff is the type-erasing convenience constructor: it accepts a
// Cont-world initializer and reifies the closure-based computation into
// the defunctionalized form the cell stores. Pure ergonomics over
// [NewAsync]; the state machine is identical.
func NewAsyncEff[T any](f func() kont.Eff[T]) *Async[T] {
	return NewAsync(func() kont.Expr[T] { return kont.Reify(f()) })
}

// ResolvedAsync returns a cell that is already initialized with v.
// No initializer exists and none will ever run.
func ResolvedAsync[T any](v T) *Async[T] {
	c := &Async[T]{serial: nextSerial(), value: v}
	c.state.Store(stateReady)
	return c
}

// Serial returns the serial number assigned to this cell.
func (c *Async[T]) Serial() Serial {
	return c.serial
}

// IsUninit reports whether the initializer has not been claimed yet.
func (c *Async[T]) IsUninit() bool {
	return c.state.Load() == stateUninit
}

// IsInitializing reports whether the initializer is currently running.
func (c *Async[T]) IsInitializing() bool {
	return c.state.Load() == stateInitializing
}

// HasInit reports whether the value has been published.
func (c *Async[T]) HasInit() bool {
	return c.state.Load() == stateReady
}

// TryGet returns a pointer to the value if it has been published.
// It never triggers initialization and never suspends.
func (c *Async[T]) TryGet() (*T, bool) {
	if c.state.Load() == stateReady {
		return &c.value, true
	}
	return nil, false
}

// Get returns the Cont-world computation resolving to a pointer to the
// initialized value. The performer that wins the claim runs the stored
// initializer and publishes; every other performer suspends on await until
// the publication wakes it. Fuses Perform(claim) + Bind over the outcome.
func (c *Async[T]) Get() kont.Eff[*T] {
	return kont.Bind(kont.Perform(claim[T]{cell: c}), func(cl claimed[T]) kont.Eff[*T] {
		switch {
		case cl.init != nil:
			return kont.Bind(kont.Reflect(cl.init()), func(v T) kont.Eff[*T] {
				return kont.Perform(publish[T]{cell: c, value: v})
			})
		case cl.ready:
			return kont.Pure(&c.value)
		}
		return kont.Perform(await[T]{cell: c})
	})
}

// IntoInner returns the Cont-world computation that consumes the cell and
// yields the value itself: it initializes if unclaimed, suspends until
// publication if another caller is mid-initialization, and then moves the
// value out. The caller must hold the cell exclusively once the
// computation completes.
func (c *Async[T]) IntoInner() kont.Eff[T] {
	return kont.Map[kont.Resumed, *T, T](c.Get(), func(p *T) T {
		return *p
	})
}

// Wait blocks the calling goroutine until the value is available and
// returns a pointer to it. Bridge for plain goroutines: equivalent to
// Exec(c.Get()), waiting past suspension boundaries with adaptive backoff.
func (c *Async[T]) Wait() *T {
	return Exec(c.Get())
}
