package kb

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/signalsfoundry/thermal-etc/model"
)

func TestNewCatalogSeedsDefault(t *testing.T) {
	c := NewCatalog()
	got := c.GetInstrument(DefaultInstrumentID)
	if got == nil {
		t.Fatalf("default instrument missing")
	}
	if got.FocalLengthM != 120 || got.PixelScaleArcsec != 0.106 {
		t.Fatalf("default instrument = %+v, want 120 m / 0.106\"", got)
	}
}

func TestAddAndGetInstrument(t *testing.T) {
	c := NewCatalog()
	if err := c.AddInstrument(&model.Instrument{ID: "vlt-ut1", Name: "Antu", FocalLengthM: 108}); err != nil {
		t.Fatalf("AddInstrument error: %v", err)
	}
	got := c.GetInstrument("vlt-ut1")
	if got == nil || got.Name != "Antu" {
		t.Fatalf("GetInstrument returned %#v, want name Antu", got)
	}

	// Returned values are copies.
	got.FocalLengthM = 1
	if again := c.GetInstrument("vlt-ut1"); again.FocalLengthM != 108 {
		t.Fatalf("catalog mutated through returned pointer: %v", again.FocalLengthM)
	}
}

func TestAddInstrumentRejectsDuplicateAndEmpty(t *testing.T) {
	c := NewCatalog()
	if err := c.AddInstrument(&model.Instrument{ID: DefaultInstrumentID}); err == nil {
		t.Fatalf("expected duplicate AddInstrument to fail")
	}
	if err := c.AddInstrument(&model.Instrument{}); err == nil {
		t.Fatalf("expected empty ID to fail")
	}
	if err := c.AddInstrument(nil); err == nil {
		t.Fatalf("expected nil instrument to fail")
	}
}

func TestGetInstrumentMissing(t *testing.T) {
	if got := NewCatalog().GetInstrument("missing"); got != nil {
		t.Fatalf("GetInstrument(missing) = %#v, want nil", got)
	}
}

func TestAllInstrumentsSorted(t *testing.T) {
	c := NewCatalog()
	for _, id := range []string{"zeta", "alpha"} {
		if err := c.AddInstrument(&model.Instrument{ID: id}); err != nil {
			t.Fatalf("AddInstrument(%s): %v", id, err)
		}
	}
	all := c.AllInstruments()
	want := []string{"alpha", DefaultInstrumentID, "zeta"}
	if len(all) != len(want) {
		t.Fatalf("AllInstruments len = %d, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("AllInstruments[%d] = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestResolve(t *testing.T) {
	c := NewCatalog()
	if err := c.AddInstrument(&model.Instrument{ID: "small", FocalLengthM: 2, PixelScaleArcsec: 1.5}); err != nil {
		t.Fatalf("AddInstrument: %v", err)
	}

	got, err := c.Resolve(model.Observation{FocalLengthM: 10}, "small")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.FocalLengthM != 10 {
		t.Fatalf("explicit focal length overridden: %v", got.FocalLengthM)
	}
	if got.SkyArcseconds != 1.5 {
		t.Fatalf("SkyArcseconds = %v, want 1.5", got.SkyArcseconds)
	}

	got, err = c.Resolve(model.Observation{}, "")
	if err != nil {
		t.Fatalf("Resolve default error: %v", err)
	}
	if got.FocalLengthM != model.DefaultFocalLengthM || got.SkyArcseconds != model.DefaultSkyArcseconds {
		t.Fatalf("Resolve default = %+v", got)
	}

	if _, err := c.Resolve(model.Observation{}, "nope"); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("Resolve(nope) err = %v, want ErrInstrumentNotFound", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.AddInstrument(&model.Instrument{ID: fmt.Sprintf("inst-%d", i)})
			_ = c.AllInstruments()
			_, _ = c.Resolve(model.Observation{}, DefaultInstrumentID)
		}(i)
	}
	wg.Wait()
	if got := len(c.AllInstruments()); got != 17 {
		t.Fatalf("AllInstruments len = %d, want 17", got)
	}
}
