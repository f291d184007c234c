// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

// Lifecycle stages of a cell. The state word only ever advances:
// Uninit → Initializing → Ready. Which storage field is live is keyed
// entirely by the stage: the initializer before the claim, the value
// after publication, nothing in between.
//
// Ordering contract: the claim is CompareAndSwap(stateUninit,
// stateInitializing); publication writes the value first and then swaps the
// state to stateReady. Go atomics are sequentially consistent, which covers
// the required release-store (publisher) / acquire-load (observer) pairing:
// any caller that observes stateReady also observes the completed value
// write. The publish swap is checked in every build; observing anything but
// stateInitializing there is a corrupted-state fault, never ignored.
const (
	stateUninit uint32 = iota
	stateInitializing
	stateReady
)

const corruptedState = "cell: corrupted state"
