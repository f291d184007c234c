// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"sync/atomic"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// Drive runs several Cont-world cell computations to completion on the
// calling goroutine and returns their results in argument order. Blocked
// computations are parked and resumed cooperatively; see [DriveExpr].
func Drive[R any](ms ...kont.Eff[R]) []R {
	exprs := make([]kont.Expr[R], len(ms))
	for i, m := range ms {
		exprs[i] = kont.Reify(m)
	}
	return DriveExpr(exprs...)
}

// DriveExpr runs several Expr-world cell computations to completion on the
// calling goroutine and returns their results in argument order. This is
// the cooperative-suspend wait strategy: a computation that hits
// iox.ErrWouldBlock is parked with a wake callback registered on the
// cell's waker, and runnable computations are scheduled FIFO through a
// bounded lock-free SPSC run queue. Both queue ends stay on the calling
// goroutine; wakes, which may fire on whichever goroutine publishes, only
// set a per-computation flag that the loop harvests into the queue.
//
// The waker slot is single-registration (last registrant wins), so a wake
// can be dropped when several computations await one cell. When neither
// the run queue nor the wake flags yield progress, the loop re-polls every
// parked computation and backs off adaptively (iox.Backoff). Does not
// spawn goroutines or create channels.
func DriveExpr[R any](ms ...kont.Expr[R]) []R {
	n := len(ms)
	results := make([]R, n)
	susps := make([]*kont.Suspension[R], n)
	pending := 0
	for i, m := range ms {
		r, susp := kont.StepExpr(m)
		if susp != nil {
			susps[i] = susp
			pending++
		} else {
			results[i] = r
		}
	}
	if pending == 0 {
		return results
	}

	var ready lfq.SPSC[int]
	ready.Init(readyCapacity(n))
	idx := make([]int, n)
	queued := make([]bool, n)
	woken := make([]atomic.Bool, n)
	wakes := make([]func(), n)
	for i := range idx {
		idx[i] = i
		wakes[i] = func() { woken[i].Store(true) }
	}

	// advance runs computation i until it blocks or completes.
	advance := func(i int) bool {
		progressed := false
		for susps[i] != nil {
			susp := susps[i]
			cop, ok := susp.Op().(cellDispatcher)
			if !ok {
				panic("cell: unhandled effect in DriveExpr")
			}
			v, err := cop.DispatchCell(wakes[i])
			if err != nil {
				break
			}
			progressed = true
			r, next := susp.Resume(v)
			susps[i] = next
			if next == nil {
				results[i] = r
				pending--
			}
		}
		return progressed
	}

	var bo iox.Backoff
	for pending > 0 {
		// Resume the next runnable computation from the FIFO run queue.
		if i, err := ready.Dequeue(); err == nil {
			queued[i] = false
			if susps[i] != nil {
				advance(i)
			}
			bo.Reset()
			continue
		}

		// Run queue drained: harvest wake flags into the queue.
		progress := false
		for j := range susps {
			if susps[j] == nil || queued[j] || !woken[j].Swap(false) {
				continue
			}
			if err := ready.Enqueue(&idx[j]); err == nil {
				queued[j] = true
				progress = true
			}
		}

		// No wakes either: the single-slot waker may have dropped one,
		// or a publication came from another goroutine. Re-poll all.
		if !progress {
			for j := range susps {
				if susps[j] != nil && advance(j) {
					progress = true
				}
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return results
}

// readyCapacity sizes the run queue: a power of two with headroom for one
// entry per computation, never below a cache-line-friendly minimum.
func readyCapacity(n int) int {
	c := 4
	for c <= n {
		c <<= 1
	}
	return c
}
