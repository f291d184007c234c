// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell_test

import (
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/cell"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

func TestStepAdvanceWinner(t *testing.T) {
	// The claim winner steps through claim then publish: two suspensions,
	// then completion.
	c := cell.NewAsync(func() kont.Expr[int] {
		return kont.ExprReturn(42)
	})

	_, susp := cell.Step(c.ExprGet())
	if susp == nil {
		t.Fatal("expected suspension for claim")
	}

	_, susp, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("Advance claim error: %v", err)
	}
	if susp == nil {
		t.Fatal("expected suspension for publish")
	}
	if !c.IsInitializing() {
		t.Fatal("cell must be Initializing between claim and publish")
	}

	result, susp, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("Advance publish error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected nil suspension after publish")
	}
	if *result != 42 {
		t.Fatalf("result got %d, want 42", *result)
	}
	if !c.HasInit() {
		t.Fatal("cell must be Ready after publish")
	}
}

func TestStepCompletionReady(t *testing.T) {
	// A computation over a resolved cell completes after a single claim
	// dispatch.
	c := cell.ResolvedAsync(7)

	_, susp := cell.Step(c.ExprGet())
	if susp == nil {
		t.Fatal("expected suspension for claim")
	}
	result, susp, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected nil suspension on ready cell")
	}
	if *result != 7 {
		t.Fatalf("result got %d, want 7", *result)
	}
}

func TestAdvanceWouldBlock(t *testing.T) {
	// A loser's await returns iox.ErrWouldBlock until the winner publishes;
	// the registered wake fires exactly on publication.
	c := cell.NewAsync(func() kont.Expr[int] {
		return kont.ExprReturn(99)
	})

	// Winner claims but does not publish yet.
	_, winner := cell.Step(c.ExprGet())
	_, winner, err := cell.Advance(winner, nil)
	if err != nil {
		t.Fatalf("winner claim error: %v", err)
	}

	// Loser claims (gets the await branch) and blocks.
	_, loser := cell.Step(c.ExprGet())
	_, loser, err = cell.Advance(loser, nil)
	if err != nil {
		t.Fatalf("loser claim error: %v", err)
	}
	woken := false
	wake := func() { woken = true }
	_, retrySusp, err := cell.Advance(loser, wake)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	if retrySusp != loser {
		t.Fatal("suspension should be returned unconsumed on error")
	}
	if woken {
		t.Fatal("wake fired before publication")
	}

	// Winner publishes; the loser's wake must fire.
	_, winner, err = cell.Advance(winner, nil)
	if err != nil {
		t.Fatalf("winner publish error: %v", err)
	}
	if winner != nil {
		t.Fatal("winner should complete at publish")
	}
	if !woken {
		t.Fatal("publication did not fire the registered wake")
	}

	// Retry after wake succeeds.
	result, loser, err := cell.Advance(loser, nil)
	if err != nil {
		t.Fatalf("loser retry error: %v", err)
	}
	if loser != nil {
		t.Fatal("expected nil suspension after successful await")
	}
	if *result != 99 {
		t.Fatalf("result got %d, want 99", *result)
	}
}

func TestStepAdvanceConcurrent(t *testing.T) {
	// Two stepping loops race for one cell from different goroutines: one
	// wins the claim, the other spin-retries its await until publication.
	var runs atomix.Uint32
	c := cell.NewAsync(func() kont.Expr[int] {
		runs.Add(1)
		return kont.ExprReturn(64)
	})

	var other *int
	done := make(chan struct{})
	go func() {
		other = execExpr(c.ExprGet())
		close(done)
	}()
	result := execExpr(c.ExprGet())
	<-done

	if got := runs.Add(0); got != 1 {
		t.Fatalf("initializer ran %d times, want 1", got)
	}
	if result != other {
		t.Fatalf("loops got pointers %p and %p, want equal", result, other)
	}
	if *result != 64 {
		t.Fatalf("result got %d, want 64", *result)
	}
}

func TestAdvanceUnhandledPanics(t *testing.T) {
	// Advance with bogus operation panics
	type bogus struct{ kont.Phantom[int] }

	protocol := kont.ExprPerform(bogus{})

	_, susp := cell.Step(protocol)
	if susp == nil {
		t.Fatal("expected suspension")
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "cell: unhandled effect in Advance" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	cell.Advance(susp, nil)
}

func TestAdvanceAffine(t *testing.T) {
	// Double resume through Advance panics
	c := cell.ResolvedAsync(1)

	_, susp := cell.Step(c.ExprGet())
	if susp == nil {
		t.Fatal("expected suspension")
	}
	_, _, err := cell.Advance(susp, nil)
	if err != nil {
		t.Fatalf("first Advance error: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on double resume")
		}
		msg, ok := r.(string)
		if !ok || msg != "kont: suspension resumed twice" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	cell.Advance(susp, nil)
}
