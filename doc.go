// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cell provides one-shot, lock-free lazy initialization cells.
//
// A cell holds either a zero-argument initializer or the value it produced.
// The initializer runs exactly once no matter how many goroutines or
// cooperative tasks race to read the cell.
//
// # Architecture
//
//   - State machine: a single atomic word advances Uninit → Initializing →
//     Ready. The claim is a compare-and-swap; publication is a checked swap.
//     No lock object exists.
//   - [Lazy] resolves contention by spin-waiting with adaptive backoff.
//   - [Async] resolves contention by suspending: losing callers park on the
//     cell's single-slot [Waker] and are resumed when the winner publishes.
//     Access is expressed as effect operations on [code.hybscloud.com/kont];
//     operations return [code.hybscloud.com/iox.ErrWouldBlock] at the
//     suspension boundary.
//
// # API Topologies
//
//   - Synchronous: [New], [Resolved], [Lazy.Get], [Lazy.TryGet],
//     [Lazy.IntoInner], [Lazy.TryIntoInner].
//   - Cooperative: [NewAsync], [NewAsyncEff], [ResolvedAsync], [Async.Get],
//     [Async.IntoInner] (Cont-world), [Async.ExprGet], [Async.ExprIntoInner]
//     (Expr-world), [Async.TryGet], [Async.Wait].
//
// # Integration
//
//   - Blocking: [Exec] and [ExecExpr] wait past boundaries using adaptive
//     backoff. [Async.Wait] is the one-cell convenience form.
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError]) evaluate
//     computations one effect at a time; Advance threads a wake callback into
//     dispatch so an external loop learns when a retry can succeed.
//   - Scheduling: [Drive] and [DriveExpr] interleave several computations on
//     the calling goroutine, parking blocked ones and resuming them from a
//     lock-free ready queue fed by cell wakers.
//
// # Example
//
//	c := cell.NewAsync(func() kont.Expr[int] { return kont.ExprReturn(42) })
//	a := kont.Map(c.Get(), func(p *int) int { return *p })
//	b := kont.Map(c.Get(), func(p *int) int { return *p })
//	results := cell.Drive(a, b) // initializer ran once; results are [42 42]
package cell
