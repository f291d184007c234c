// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell_test

import (
	"code.hybscloud.com/cell"
	"code.hybscloud.com/kont"
)

// execExpr drives a computation to completion via Step+Advance loop.
// Retries on iox.ErrWouldBlock (publication not arrived yet).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[R any](m kont.Expr[R]) R {
	result, susp := cell.Step(m)
	for susp != nil {
		var err error
		result, susp, err = cell.Advance(susp, nil)
		if err != nil {
			continue
		}
	}
	return result
}
