// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"code.hybscloud.com/kont"
)

// cellErrorHandler handles both cell and error effects.
// Cell ops wait on ErrWouldBlock via iox.Backoff. Error ops short-circuit
// on Throw. A Throw performed before a claimed initializer publishes
// abandons the cell at Initializing permanently; initializer failure is
// outside the cell contract.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type cellErrorHandler[E, A any] struct {
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Cell+Error handler.
// Dispatch order: Cell → Error.
func (h cellErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if cop, ok := op.(cellDispatcher); ok {
		return dispatchWait(cop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("cell: unhandled effect in cellErrorHandler")
}

// ExecError runs a Cont-world cell computation with error handling.
// Returns Either[E, R]: Right on success, Left on Throw.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func ExecError[E, R any](m kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](m, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := cellErrorHandler[E, R]{errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr-world cell computation with error handling.
// Returns Either[E, R]: Right on success, Left on Throw.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func ExecErrorExpr[E, R any](m kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(m, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := cellErrorHandler[E, R]{errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// StepError evaluates a cell computation with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion or
// error, or (zero, suspension) if pending.
func StepError[E, R any](m kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(m, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation.
// Cell ops are non-blocking (ErrWouldBlock), with wake registered as in
// [Advance]. Error ops are eager: Throw discards the suspension and
// returns Left.
func AdvanceError[E, R any](susp *kont.Suspension[kont.Either[E, R]], wake func()) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	// Cell ops: non-blocking dispatch
	if cop, ok := susp.Op().(cellDispatcher); ok {
		v, err := cop.DispatchCell(wake)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("cell: unhandled effect in AdvanceError")
}
