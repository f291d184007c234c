// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell_test

import (
	"testing"
	"time"

	"code.hybscloud.com/cell"
	"code.hybscloud.com/kont"
)

func TestWaitDeadlockCoverage(t *testing.T) {
	// A cell claimed but never published keeps waiters in the backoff loop.
	c := cell.NewAsync(func() kont.Expr[int] {
		return kont.ExprReturn(0)
	})
	_, susp := cell.Step(c.ExprGet())
	_, _, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("claim error: %v", err)
	}

	go func() {
		c.Wait()
	}()

	time.Sleep(50 * time.Millisecond) // Give it time to hit bo.Wait()
}

func TestDriveDeadlockCoverage(t *testing.T) {
	skipRace(t)
	c := cell.NewAsync(func() kont.Expr[int] {
		return kont.ExprReturn(0)
	})
	_, susp := cell.Step(c.ExprGet())
	_, _, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("claim error: %v", err)
	}

	go func() {
		cell.Drive(c.IntoInner(), c.IntoInner())
	}()

	time.Sleep(50 * time.Millisecond) // Give it time to hit bo.Wait()
}
