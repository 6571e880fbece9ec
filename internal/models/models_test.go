package models_test

import (
	"errors"
	"math"
	"testing"

	"github.com/tphummel/lab_stock/internal/models"
)

func newRyzen(t *testing.T) *models.Resource {
	t.Helper()
	r, err := models.NewCPU("Ryzen 5", "AMD", 200, 10, 2, 6, "AM4", "AM4", 65)
	if err != nil {
		t.Fatalf("NewCPU: %v", err)
	}
	return r
}

func TestNewCPU_RoundTrip(t *testing.T) {
	r := newRyzen(t)

	if r.Kind() != models.KindCPU {
		t.Errorf("Kind: got %v, want CPU", r.Kind())
	}
	if r.Category() != "cpu" {
		t.Errorf("Category: got %q, want cpu", r.Category())
	}
	if r.Name() != "Ryzen 5" {
		t.Errorf("Name: got %q, want Ryzen 5", r.Name())
	}
	if r.Manufacturer() != "AMD" {
		t.Errorf("Manufacturer: got %q, want AMD", r.Manufacturer())
	}
	if r.Cost() != 200 {
		t.Errorf("Cost: got %v, want 200", r.Cost())
	}
	if r.Total() != 10 {
		t.Errorf("Total: got %d, want 10", r.Total())
	}
	if r.Allocated() != 2 {
		t.Errorf("Allocated: got %d, want 2", r.Allocated())
	}
	cpu, ok := r.CPU()
	if !ok {
		t.Fatal("CPU(): expected ok")
	}
	want := models.CPUSpec{Cores: 6, Interface: "AM4", Socket: "AM4", PowerWatts: 65}
	if cpu != want {
		t.Errorf("CPU(): got %+v, want %+v", cpu, want)
	}
	if _, ok := r.Storage(); ok {
		t.Error("Storage(): CPU should not report storage attributes")
	}
}

func TestNewHDD_RoundTrip(t *testing.T) {
	r, err := models.NewHDD("Seagate2TB", "Seagate", 59.99, 500, 120, 2000, 3.5, 7200)
	if err != nil {
		t.Fatalf("NewHDD: %v", err)
	}
	if r.Category() != "hdd" {
		t.Errorf("Category: got %q, want hdd", r.Category())
	}
	hdd, ok := r.HDD()
	if !ok {
		t.Fatal("HDD(): expected ok")
	}
	if hdd.CapacityGB != 2000 || hdd.Size != 3.5 || hdd.RPM != 7200 {
		t.Errorf("HDD(): got %+v", hdd)
	}
	st, ok := r.Storage()
	if !ok || st.CapacityGB != 2000 {
		t.Errorf("Storage(): got %+v, %v", st, ok)
	}
	if !r.Kind().IsStorage() {
		t.Error("HDD should be in the storage family")
	}
}

func TestNewSSD_RoundTrip(t *testing.T) {
	r, err := models.NewSSD("970 EVO", "Samsung", 120, 40, 0, 1000, "NVMe")
	if err != nil {
		t.Fatalf("NewSSD: %v", err)
	}
	ssd, ok := r.SSD()
	if !ok {
		t.Fatal("SSD(): expected ok")
	}
	if ssd.CapacityGB != 1000 || ssd.Interface != "NVMe" {
		t.Errorf("SSD(): got %+v", ssd)
	}
	if _, ok := r.HDD(); ok {
		t.Error("HDD(): SSD should not report HDD attributes")
	}
}

func TestNew_RejectsNegativeFields(t *testing.T) {
	base := models.Base{Name: "x", Manufacturer: "y", Cost: 1, Total: 4, Allocated: 1}
	cpu := models.CPUSpec{Cores: 4, Interface: "LGA", Socket: "LGA1700", PowerWatts: 125}

	tests := []struct {
		name string
		base func(b models.Base) models.Base
		spec models.Spec
	}{
		{"negative cost", func(b models.Base) models.Base { b.Cost = -0.5; return b }, cpu},
		{"negative total", func(b models.Base) models.Base { b.Total = -1; return b }, cpu},
		{"negative allocated", func(b models.Base) models.Base { b.Allocated = -1; return b }, cpu},
		{"NaN cost", func(b models.Base) models.Base { b.Cost = math.NaN(); return b }, cpu},
		{"allocated above total", func(b models.Base) models.Base { b.Allocated = 5; return b }, cpu},
		{"negative cores", nil, models.CPUSpec{Cores: -2, PowerWatts: 10}},
		{"zero cores", nil, models.CPUSpec{Cores: 0, PowerWatts: 10}},
		{"negative power", nil, models.CPUSpec{Cores: 2, PowerWatts: -10}},
		{"negative hdd capacity", nil, models.HDDSpec{Storage: models.Storage{CapacityGB: -1}, Size: 3.5, RPM: 5400}},
		{"negative hdd size", nil, models.HDDSpec{Storage: models.Storage{CapacityGB: 1}, Size: -2.5, RPM: 5400}},
		{"negative hdd rpm", nil, models.HDDSpec{Storage: models.Storage{CapacityGB: 1}, Size: 2.5, RPM: -1}},
		{"negative ssd capacity", nil, models.SSDSpec{Storage: models.Storage{CapacityGB: -512}}},
		{"nil spec", nil, nil},
		{"nil pointer spec", nil, (*models.HDDSpec)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			if tt.base != nil {
				b = tt.base(b)
			}
			r, err := models.New(b, tt.spec)
			if !errors.Is(err, models.ErrInvalidValue) {
				t.Fatalf("err: got %v, want ErrInvalidValue", err)
			}
			if r != nil {
				t.Errorf("resource should not be created, got %v", r)
			}
		})
	}
}

func TestNew_AcceptsZeroValues(t *testing.T) {
	r, err := models.NewSSD("", "", 0, 0, 0, 0, "")
	if err != nil {
		t.Fatalf("NewSSD with zero values: %v", err)
	}
	if r.Available() != 0 {
		t.Errorf("Available: got %d, want 0", r.Available())
	}
}

func TestNew_PointerSpecIsCopied(t *testing.T) {
	spec := &models.HDDSpec{Storage: models.Storage{CapacityGB: 2000}, Size: 3.5, RPM: 7200}
	r, err := models.New(models.Base{Name: "d", Total: 1}, spec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec.RPM = -1
	hdd, _ := r.HDD()
	if hdd.RPM != 7200 {
		t.Errorf("RPM changed through caller pointer: got %d", hdd.RPM)
	}
}

func TestSetCost(t *testing.T) {
	r := newRyzen(t)

	if err := r.SetCost(180.5); err != nil {
		t.Fatalf("SetCost: %v", err)
	}
	if r.Cost() != 180.5 {
		t.Errorf("Cost: got %v, want 180.5", r.Cost())
	}

	err := r.SetCost(-1)
	if !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("SetCost(-1): got %v, want ErrInvalidValue", err)
	}
	if r.Cost() != 180.5 {
		t.Errorf("Cost after rejected set: got %v, want 180.5", r.Cost())
	}
}

func TestSetSpec(t *testing.T) {
	r := newRyzen(t)

	if err := r.SetSpec(models.CPUSpec{Cores: 8, Interface: "AM5", Socket: "AM5", PowerWatts: 105}); err != nil {
		t.Fatalf("SetSpec: %v", err)
	}
	cpu, _ := r.CPU()
	if cpu.Cores != 8 || cpu.Socket != "AM5" {
		t.Errorf("CPU after SetSpec: got %+v", cpu)
	}

	err := r.SetSpec(models.CPUSpec{Cores: 8, PowerWatts: -1})
	if !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("negative PowerWatts: got %v, want ErrInvalidValue", err)
	}
	cpu, _ = r.CPU()
	if cpu.PowerWatts != 105 {
		t.Errorf("PowerWatts after rejected set: got %d, want 105", cpu.PowerWatts)
	}

	err = r.SetSpec(models.SSDSpec{Storage: models.Storage{CapacityGB: 1}})
	if !errors.Is(err, models.ErrInvalidValue) {
		t.Errorf("kind change: got %v, want ErrInvalidValue", err)
	}
	if r.Kind() != models.KindCPU {
		t.Errorf("Kind after rejected set: got %v", r.Kind())
	}
}

func TestSetNameAndManufacturer(t *testing.T) {
	r := newRyzen(t)
	r.SetName("Ryzen 7")
	r.SetManufacturer("Advanced Micro Devices")
	if r.Name() != "Ryzen 7" || r.Manufacturer() != "Advanced Micro Devices" {
		t.Errorf("got %q / %q", r.Name(), r.Manufacturer())
	}
}

func TestClone_IsIndependent(t *testing.T) {
	r := newRyzen(t)
	c := r.Clone()
	if err := c.Claim(3); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if r.Allocated() != 2 {
		t.Errorf("original Allocated: got %d, want 2", r.Allocated())
	}
	if c.Allocated() != 5 {
		t.Errorf("clone Allocated: got %d, want 5", c.Allocated())
	}
}

func TestString(t *testing.T) {
	cpu := newRyzen(t)
	hdd, err := models.NewHDD("Seagate2TB", "Seagate", 60, 500, 120, 2000, 3.5, 7200)
	if err != nil {
		t.Fatalf("NewHDD: %v", err)
	}
	ssd, err := models.NewSSD("970 EVO", "Samsung", 120, 40, 3, 1000, "NVMe")
	if err != nil {
		t.Fatalf("NewSSD: %v", err)
	}

	tests := []struct {
		r    *models.Resource
		want string
	}{
		{cpu, "CPU(Ryzen 5, AMD, 10, 2, Cores: 6, Interface: AM4, Socket: AM4, PowerWatts: 65)"},
		{hdd, "HDD(Seagate2TB, Seagate, 500, 120, Capacity: 2000 GB, Size: 3.5, RPM: 7200)"},
		{ssd, "SSD(970 EVO, Samsung, 40, 3, Capacity: 1000 GB, Interface: NVMe)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String:\n got %q\nwant %q", got, tt.want)
		}
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String is not deterministic: %q", got)
		}
	}
}
