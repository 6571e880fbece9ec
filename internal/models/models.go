package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Base holds the fields every resource carries regardless of kind.
type Base struct {
	Name         string
	Manufacturer string
	Cost         float64
	Total        int
	Allocated    int
}

// Spec is the kind-specific attribute set of a resource. The implementations
// in this package (CPUSpec, HDDSpec, SSDSpec) are the only ones.
type Spec interface {
	Kind() Kind
	check() error
	fields() []string
}

// CPUSpec describes a processor model.
type CPUSpec struct {
	Cores      int
	Interface  string
	Socket     string
	PowerWatts int
}

// Kind returns KindCPU.
func (CPUSpec) Kind() Kind { return KindCPU }

func (s CPUSpec) check() error {
	if s.Cores == 0 {
		return fmt.Errorf("%w: Cores must be positive", ErrInvalidValue)
	}
	return nil
}

func (s CPUSpec) fields() []string {
	return []string{
		"Cores: " + strconv.Itoa(s.Cores),
		"Interface: " + s.Interface,
		"Socket: " + s.Socket,
		"PowerWatts: " + strconv.Itoa(s.PowerWatts),
	}
}

// Storage is the attribute set shared by all storage devices.
type Storage struct {
	CapacityGB int
}

func (s Storage) fields() []string {
	return []string{fmt.Sprintf("Capacity: %d GB", s.CapacityGB)}
}

// HDDSpec describes a spinning disk. Size is the form factor in inches.
type HDDSpec struct {
	Storage
	Size float64
	RPM  int
}

// Kind returns KindHDD.
func (HDDSpec) Kind() Kind { return KindHDD }

func (HDDSpec) check() error { return nil }

func (s HDDSpec) fields() []string {
	return append(s.Storage.fields(),
		"Size: "+strconv.FormatFloat(s.Size, 'f', -1, 64),
		"RPM: "+strconv.Itoa(s.RPM),
	)
}

// SSDSpec describes a solid state drive.
type SSDSpec struct {
	Storage
	Interface string
}

// Kind returns KindSSD.
func (SSDSpec) Kind() Kind { return KindSSD }

func (SSDSpec) check() error { return nil }

func (s SSDSpec) fields() []string {
	return append(s.Storage.fields(), "Interface: "+s.Interface)
}

// Resource is a pool of identical hardware units. The zero value is not
// usable; construct with New or one of the kind helpers.
//
// A Resource is not safe for concurrent use.
type Resource struct {
	base Base
	spec Spec
}

// New validates b and s and returns the resource. Any negative numeric field,
// an allocation above the total, or a missing spec fails with ErrInvalidValue.
func New(b Base, s Spec) (*Resource, error) {
	s, err := normalizeSpec(s)
	if err != nil {
		return nil, err
	}
	r := &Resource{spec: s}
	if err := r.setBase(b); err != nil {
		return nil, err
	}
	return r, nil
}

// NewCPU builds a CPU resource.
func NewCPU(name, manufacturer string, cost float64, total, allocated, cores int, iface, socket string, powerWatts int) (*Resource, error) {
	return New(
		Base{Name: name, Manufacturer: manufacturer, Cost: cost, Total: total, Allocated: allocated},
		CPUSpec{Cores: cores, Interface: iface, Socket: socket, PowerWatts: powerWatts},
	)
}

// NewHDD builds an HDD resource.
func NewHDD(name, manufacturer string, cost float64, total, allocated, capacityGB int, size float64, rpm int) (*Resource, error) {
	return New(
		Base{Name: name, Manufacturer: manufacturer, Cost: cost, Total: total, Allocated: allocated},
		HDDSpec{Storage: Storage{CapacityGB: capacityGB}, Size: size, RPM: rpm},
	)
}

// NewSSD builds an SSD resource.
func NewSSD(name, manufacturer string, cost float64, total, allocated, capacityGB int, iface string) (*Resource, error) {
	return New(
		Base{Name: name, Manufacturer: manufacturer, Cost: cost, Total: total, Allocated: allocated},
		SSDSpec{Storage: Storage{CapacityGB: capacityGB}, Interface: iface},
	)
}

// normalizeSpec dereferences pointer specs so a Resource never shares
// attribute storage with its caller, then validates the attribute set.
func normalizeSpec(s Spec) (Spec, error) {
	switch v := s.(type) {
	case *CPUSpec:
		if v == nil {
			s = nil
		} else {
			s = *v
		}
	case *HDDSpec:
		if v == nil {
			s = nil
		} else {
			s = *v
		}
	case *SSDSpec:
		if v == nil {
			s = nil
		} else {
			s = *v
		}
	}
	if s == nil {
		return nil, fmt.Errorf("%w: resource spec is required", ErrInvalidValue)
	}
	if err := checkFields(s); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// setBase validates b in full and commits it only if every field passes.
func (r *Resource) setBase(b Base) error {
	if err := checkFields(b); err != nil {
		return err
	}
	if b.Allocated > b.Total {
		return fmt.Errorf("%w: Allocated %d exceeds Total %d", ErrInvalidValue, b.Allocated, b.Total)
	}
	r.base = b
	return nil
}

// Kind reports which variant r holds.
func (r *Resource) Kind() Kind { return r.spec.Kind() }

// Category is the lowercase kind name, e.g. "cpu".
func (r *Resource) Category() string { return r.Kind().Category() }

// Name returns the model name.
func (r *Resource) Name() string { return r.base.Name }

// Manufacturer returns the vendor name.
func (r *Resource) Manufacturer() string { return r.base.Manufacturer }

// Cost returns the unit cost.
func (r *Resource) Cost() float64 { return r.base.Cost }

// Total is the number of units owned.
func (r *Resource) Total() int { return r.base.Total }

// Allocated is the number of units currently claimed.
func (r *Resource) Allocated() int { return r.base.Allocated }

// Available is the number of units that are owned but not claimed.
func (r *Resource) Available() int { return r.base.Total - r.base.Allocated }

// Base returns a copy of the shared fields.
func (r *Resource) Base() Base { return r.base }

// Spec returns the kind-specific attributes by value.
func (r *Resource) Spec() Spec { return r.spec }

// CPU returns the CPU attributes when r is a CPU.
func (r *Resource) CPU() (CPUSpec, bool) {
	s, ok := r.spec.(CPUSpec)
	return s, ok
}

// HDD returns the HDD attributes when r is an HDD.
func (r *Resource) HDD() (HDDSpec, bool) {
	s, ok := r.spec.(HDDSpec)
	return s, ok
}

// SSD returns the SSD attributes when r is an SSD.
func (r *Resource) SSD() (SSDSpec, bool) {
	s, ok := r.spec.(SSDSpec)
	return s, ok
}

// Storage returns the shared storage attributes for HDDs and SSDs.
func (r *Resource) Storage() (Storage, bool) {
	switch s := r.spec.(type) {
	case HDDSpec:
		return s.Storage, true
	case SSDSpec:
		return s.Storage, true
	}
	return Storage{}, false
}

// SetName replaces the model name.
func (r *Resource) SetName(name string) {
	r.base.Name = name
}

// SetManufacturer replaces the vendor name.
func (r *Resource) SetManufacturer(manufacturer string) {
	r.base.Manufacturer = manufacturer
}

// SetCost replaces the unit cost. A negative cost is rejected and the
// previous value kept.
func (r *Resource) SetCost(cost float64) error {
	b := r.base
	b.Cost = cost
	return r.setBase(b)
}

// SetSpec replaces the kind-specific attributes. The kind cannot change.
func (r *Resource) SetSpec(s Spec) error {
	s, err := normalizeSpec(s)
	if err != nil {
		return err
	}
	if s.Kind() != r.Kind() {
		return fmt.Errorf("%w: cannot change kind from %s to %s", ErrInvalidValue, r.Kind(), s.Kind())
	}
	r.spec = s
	return nil
}

// Clone returns an independent copy of r.
func (r *Resource) Clone() *Resource {
	c := *r
	return &c
}

// String renders the resource as
// "Kind(name, manufacturer, total, allocated, Label: value, ...)".
// The variant fields sit inside the parentheses, matching the documented
// HDD form "HDD(Seagate2TB, Seagate, 500, 120, Capacity: 2000 GB, Size: 3.5, RPM: 7200)".
// Callers and tests depend on this exact layout.
func (r *Resource) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%s, %s, %d, %d", r.Kind(), r.base.Name, r.base.Manufacturer, r.base.Total, r.base.Allocated)
	for _, f := range r.spec.fields() {
		sb.WriteString(", ")
		sb.WriteString(f)
	}
	sb.WriteByte(')')
	return sb.String()
}
