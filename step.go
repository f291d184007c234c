// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a cell computation until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](m kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(m)
}

// Advance dispatches the suspended cell operation. DispatchCell is
// non-blocking: it returns iox.ErrWouldBlock when the cell has not yet
// published (the suspension boundary). wake, if non-nil, is registered with
// the cell's waker before the state check, so the caller's runtime is
// notified once a retry can succeed; spurious wakes are possible and the
// retried dispatch re-verifies the state.
//
// On success (nil error), the suspension is consumed and the computation
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried
// after the wake fires.
func Advance[R any](susp *kont.Suspension[R], wake func()) (R, *kont.Suspension[R], error) {
	cop, ok := susp.Op().(cellDispatcher)
	if !ok {
		panic("cell: unhandled effect in Advance")
	}
	v, err := cop.DispatchCell(wake)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
