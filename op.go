// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// cellDispatcher is the structural interface for cell operations.
// DispatchCell is non-blocking: it returns iox.ErrWouldBlock at the
// suspension boundary when the cell is not yet ready. wake, if non-nil,
// is registered with the cell's waker before the state check so the
// caller's runtime is notified when a retry can succeed.
type cellDispatcher interface {
	DispatchCell(wake func()) (kont.Resumed, error)
}

// claimed is the resumption payload of claim.
// init is non-nil iff this caller won the claim and now owns the
// initializer; ready reports that the value was already published.
// Neither set means another caller is mid-initialization.
type claimed[T any] struct {
	init  func() kont.Expr[T]
	ready bool
}

// claim is the effect operation attempting the Uninit → Initializing
// transition. Exactly one performer ever receives the initializer.
type claim[T any] struct {
	kont.Phantom[claimed[T]]
	cell *Async[T]
}

// DispatchCell handles claim. Never blocks: the compare-and-swap either
// wins, or the observed state tells the caller which losing path to take.
func (op claim[T]) DispatchCell(func()) (kont.Resumed, error) {
	c := op.cell
	if c.state.CompareAndSwap(stateUninit, stateInitializing) {
		f := c.f
		c.f = nil
		return claimed[T]{init: f}, nil
	}
	switch c.state.Load() {
	case stateInitializing:
		return claimed[T]{}, nil
	case stateReady:
		return claimed[T]{ready: true}, nil
	}
	panic(corruptedState)
}

// publish is the effect operation performed by the claim winner after its
// initializer computation completes. It writes the value, advances the
// state to Ready, and wakes any suspended caller.
type publish[T any] struct {
	kont.Phantom[*T]
	cell  *Async[T]
	value T
}

// DispatchCell handles publish. The value write precedes the state swap,
// and the swap is checked: only Initializing may precede Ready. Never blocks.
func (op publish[T]) DispatchCell(func()) (kont.Resumed, error) {
	c := op.cell
	c.value = op.value
	if prior := c.state.Swap(stateReady); prior != stateInitializing {
		panic(corruptedState)
	}
	c.waker.Wake()
	return &c.value, nil
}

// await is the suspension primitive: it parks a losing caller until the
// cell reaches Ready. Each dispatch registers the wake callback first and
// checks the state second, so a publication racing with the registration is
// never missed. Wakes may be spurious; every dispatch re-verifies the state
// rather than assuming completion.
type await[T any] struct {
	kont.Phantom[*T]
	cell *Async[T]
}

// DispatchCell handles await.
// Non-blocking: returns iox.ErrWouldBlock while the value is unpublished.
func (op await[T]) DispatchCell(wake func()) (kont.Resumed, error) {
	c := op.cell
	if wake != nil {
		c.waker.Register(wake)
	}
	if c.state.Load() == stateReady {
		return &c.value, nil
	}
	return nil, iox.ErrWouldBlock
}
