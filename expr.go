// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is pre-allocated to eliminate heap escapes when boxing
// the empty ReturnFrame into kont.Frame during Expr-world execution.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprGet returns the Expr-world computation resolving to a pointer to the
// initialized value. Same protocol as [Async.Get], built from pooled
// defunctionalized frames: claim effect, then branch on the outcome.
func (c *Async[T]) ExprGet() kont.Expr[*T] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = c
	uf.Unwind = claimUnwind[T]
	ef := kont.AcquireEffectFrame()
	ef.Operation = claim[T]{cell: c}
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[*T](ef)
}

// claimUnwind branches on the claim outcome: the winner runs its
// initializer computation and chains a publish continuation behind it, the
// ready path completes immediately, and everyone else suspends on await.
func claimUnwind[T any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	c := data.(*Async[T])
	cl := current.(claimed[T])
	switch {
	case cl.init != nil:
		inner := cl.init()
		if _, ok := inner.Frame.(kont.ReturnFrame); ok {
			// Initializer completed without suspending: publish directly.
			return nil, publishFrame(c, inner.Value)
		}
		bf := kont.AcquireBindFrame()
		bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
			return kont.Expr[kont.Erased]{Frame: publishFrame(c, a.(T))}
		}
		bf.Next = exprReturnFrame
		return kont.Erased(inner.Value), kont.ChainFrames(inner.Frame, bf)
	case cl.ready:
		return kont.Erased(&c.value), exprReturnFrame
	}
	af := kont.AcquireEffectFrame()
	af.Operation = await[T]{cell: c}
	af.Resume = identityResume
	af.Next = exprReturnFrame
	return nil, af
}

// publishFrame builds the effect frame that writes v into c, advances the
// state to Ready and wakes suspended callers.
func publishFrame[T any](c *Async[T], v T) kont.Frame {
	pf := kont.AcquireEffectFrame()
	pf.Operation = publish[T]{cell: c, value: v}
	pf.Resume = identityResume
	pf.Next = exprReturnFrame
	return pf
}

// ExprIntoInner returns the Expr-world computation that consumes the cell
// and yields the value itself. Same consumption policy as
// [Async.IntoInner]: initialize if unclaimed, suspend through an in-flight
// initialization, then move the value out.
func (c *Async[T]) ExprIntoInner() kont.Expr[T] {
	return kont.ExprMap(c.ExprGet(), func(p *T) T {
		return *p
	})
}
