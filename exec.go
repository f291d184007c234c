// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// cellHandler implements kont.Handler for cell effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch into
// blocking evaluation for Exec/ExecExpr. This is the busy-poll wait
// strategy; the cooperative one lives in Drive.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type cellHandler[R any] struct{}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff.
func (cellHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	cop, ok := op.(cellDispatcher)
	if !ok {
		panic("cell: unhandled effect in cellHandler")
	}
	return dispatchWait(cop), true
}

// dispatchWait blocks until DispatchCell succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff. No wake callback is registered;
// the spin re-checks state on every iteration.
func dispatchWait(cop cellDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := cop.DispatchCell(nil)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world cell computation to completion on the calling
// goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff, without
// spawning goroutines or creating channels.
func Exec[R any](m kont.Eff[R]) R {
	return kont.Handle(m, cellHandler[R]{})
}

// ExecExpr runs an Expr-world cell computation to completion on the
// calling goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff,
// without spawning goroutines or creating channels.
func ExecExpr[R any](m kont.Expr[R]) R {
	return kont.HandleExpr(m, cellHandler[R]{})
}
