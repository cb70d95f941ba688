// Package variant implements the per-variant settlement formulas shared by
// COMPENSATIVE_BUYOUT and GOALMAX_BUYOUT, plus FINITE_BUYOUT's simpler math.
// All functions are pure: callers load/save records and move tokens.
package variant

import (
	"math/bits"

	"github.com/tolelom/tolchain/core"
)

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, core.ErrMathOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, core.ErrMathOverflow
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, core.ErrMathOverflow
	}
	return lo, nil
}

// RebateAtArrival computes the rebate credited to the buyer arriving when
// currcount is about to become n+1 (the "n+1" form fixed by the spec for
// pay: the arriving buyer is included in the denominator).
func RebateAtArrival(currcountAtEntry, goalcount, price uint64) (uint64, error) {
	n1 := currcountAtEntry + 1
	if n1 <= goalcount {
		return 0, nil
	}
	return mulDiv(saturatingSub(n1, goalcount), price, n1)
}

// BonusEntitlement computes a payer's cumulative entitlement (rebate +
// bonus) once total currcount reaches n (the "n" form fixed by the spec
// for bonus: the claimant is not additionally counted beyond currcount).
func BonusEntitlement(currcount, goalcount, price uint64) (uint64, error) {
	if currcount <= goalcount {
		return 0, nil
	}
	return mulDiv(saturatingSub(currcount, goalcount), price, currcount)
}

// OwnerOwedSlots returns the number of buyer-slots the owner may still cash
// out: min(currcount, goalcount) - withdrawalCount.
func OwnerOwedSlots(currcount, goalcount, withdrawalCount uint64) uint64 {
	bound := currcount
	if goalcount < bound {
		bound = goalcount
	}
	return saturatingSub(bound, withdrawalCount)
}

// OwnerOwedAmount converts owed slots into a token amount, checked against overflow.
func OwnerOwedAmount(slots, price uint64) (uint64, error) {
	return checkedMul(slots, price)
}

// FiniteWithdrawSlots returns currcount - withdrawalCount for FINITE_BUYOUT,
// whose owner is owed every paid slot (no goal cap on withdrawal).
func FiniteWithdrawSlots(currcount, withdrawalCount uint64) uint64 {
	return saturatingSub(currcount, withdrawalCount)
}
