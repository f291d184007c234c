// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import "sync/atomic"

// Waker is a single-slot wake registration shared by all suspended callers
// of one [Async] cell. Register overwrites any previous registration: last
// registrant wins, no FIFO fairness. Wake takes the slot and invokes it at
// most once per registration.
//
// Protocol: callers register first and check the cell state second, while
// the publisher stores the state first and wakes second. A wake that fires
// between a caller's Register and its state check is harmless (the check
// succeeds); a registration that lands after Wake already swapped the slot
// observes the published state on its own check. Lost wakes are therefore
// impossible, though spurious ones are not; every resumption re-checks.
type Waker struct {
	slot atomic.Pointer[func()]
}

// Register stores f as the wake target, replacing any previous registration.
func (w *Waker) Register(f func()) {
	if f == nil {
		return
	}
	w.slot.Store(&f)
}

// Wake takes the current registration, if any, and invokes it.
func (w *Waker) Wake() {
	if f := w.slot.Swap(nil); f != nil {
		(*f)()
	}
}
