package models

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete type of a resource.
type Kind int

const (
	KindCPU Kind = iota + 1
	KindHDD
	KindSSD
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindCPU, KindHDD, KindSSD}

// String returns the type name used in the textual representation.
func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "CPU"
	case KindHDD:
		return "HDD"
	case KindSSD:
		return "SSD"
	default:
		return "Unknown"
	}
}

// Category is the lowercase type name.
func (k Kind) Category() string {
	return strings.ToLower(k.String())
}

// IsStorage reports whether k belongs to the storage family.
func (k Kind) IsStorage() bool {
	return k == KindHDD || k == KindSSD
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindCPU && k <= KindSSD
}

// ParseKind maps a category string ("cpu", "hdd", "ssd") to its Kind.
// Matching is case-sensitive, like the category itself.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.Category() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, s)
}
