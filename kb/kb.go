package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/thermal-etc/model"
)

// DefaultInstrumentID names the instrument seeded into every catalog.
const DefaultInstrumentID = "paranal-ut4"

// ErrInstrumentNotFound is returned when a lookup names an unknown instrument.
var ErrInstrumentNotFound = errors.New("instrument not found")

// Catalog is an in-memory, thread-safe store of instrument profiles.
type Catalog struct {
	mu sync.RWMutex

	instruments map[string]*model.Instrument
}

// NewCatalog constructs a catalog holding the default Paranal UT4 profile.
func NewCatalog() *Catalog {
	c := &Catalog{
		instruments: make(map[string]*model.Instrument),
	}
	c.instruments[DefaultInstrumentID] = &model.Instrument{
		ID:               DefaultInstrumentID,
		Name:             "Paranal UT4",
		FocalLengthM:     model.DefaultFocalLengthM,
		PixelScaleArcsec: model.DefaultSkyArcseconds,
	}
	return c
}

// AddInstrument adds a new instrument. It returns an error if the ID is empty
// or already exists.
func (c *Catalog) AddInstrument(inst *model.Instrument) error {
	if inst == nil || inst.ID == "" {
		return fmt.Errorf("instrument ID must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instruments[inst.ID]; exists {
		return fmt.Errorf("instrument with ID %q already exists", inst.ID)
	}
	cp := *inst
	c.instruments[inst.ID] = &cp
	return nil
}

// GetInstrument returns a copy of the instrument with the given ID, or nil if
// not found.
func (c *Catalog) GetInstrument(id string) *model.Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instruments[id]
	if !ok {
		return nil
	}
	cp := *inst
	return &cp
}

// AllInstruments returns copies of every instrument, sorted by ID.
func (c *Catalog) AllInstruments() []*model.Instrument {
	c.mu.RLock()
	out := make([]*model.Instrument, 0, len(c.instruments))
	for _, inst := range c.instruments {
		cp := *inst
		out = append(out, &cp)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve fills the optical fields of obs that are still absent from the
// named instrument. An empty id selects DefaultInstrumentID.
func (c *Catalog) Resolve(obs model.Observation, id string) (model.Observation, error) {
	if id == "" {
		id = DefaultInstrumentID
	}
	inst := c.GetInstrument(id)
	if inst == nil {
		return obs, fmt.Errorf("%w: %q", ErrInstrumentNotFound, id)
	}
	return obs.Merge(inst.Observation()), nil
}
