package models

import "fmt"

// Op names a quantity-mutating operation.
type Op string

const (
	OpClaim     Op = "claim"
	OpFeedup    Op = "feedup"
	OpDied      Op = "died"
	OpPurchased Op = "purchased"
)

// Ops lists every operation.
var Ops = []Op{OpClaim, OpFeedup, OpDied, OpPurchased}

// ParseOp maps an operation name to its Op.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: unknown operation %q", ErrInvalidValue, s)
}

// Apply runs op with quantity n.
func (r *Resource) Apply(op Op, n int) error {
	switch op {
	case OpClaim:
		return r.Claim(n)
	case OpFeedup:
		return r.Feedup(n)
	case OpDied:
		return r.Died(n)
	case OpPurchased:
		return r.Purchased(n)
	}
	return fmt.Errorf("%w: unknown operation %q", ErrInvalidValue, op)
}

// Claim allocates m of the available units.
func (r *Resource) Claim(m int) error {
	if err := quantity(OpClaim, m); err != nil {
		return err
	}
	if m > r.Available() {
		return fmt.Errorf("%w: cannot claim %d, only %d available", ErrInsufficientResources, m, r.Available())
	}
	return r.setCounts(r.base.Total, r.base.Allocated+m)
}

// Feedup releases n allocated units back to the pool.
func (r *Resource) Feedup(n int) error {
	if err := quantity(OpFeedup, n); err != nil {
		return err
	}
	if n > r.base.Allocated {
		return fmt.Errorf("%w: cannot free %d, only %d allocated", ErrInsufficientResources, n, r.base.Allocated)
	}
	return r.setCounts(r.base.Total, r.base.Allocated-n)
}

// Died retires n units. At least n units must be unallocated; both total and
// allocated drop by n, so the call also fails with ErrInvalidValue when fewer
// than n units are allocated.
func (r *Resource) Died(n int) error {
	if err := quantity(OpDied, n); err != nil {
		return err
	}
	if n > r.Available() {
		return fmt.Errorf("%w: cannot retire %d, only %d unallocated", ErrInsufficientResources, n, r.Available())
	}
	return r.setCounts(r.base.Total-n, r.base.Allocated-n)
}

// Purchased adds n units to the pool.
func (r *Resource) Purchased(n int) error {
	if err := quantity(OpPurchased, n); err != nil {
		return err
	}
	return r.setCounts(r.base.Total+n, r.base.Allocated)
}

func (r *Resource) setCounts(total, allocated int) error {
	b := r.base
	b.Total = total
	b.Allocated = allocated
	return r.setBase(b)
}
