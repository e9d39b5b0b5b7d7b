// Package store owns the canonical current value of every known
// property/area pair of the simulated bus.
package store

import (
	"sort"
	"sync"

	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/vehicle"
)

type key struct {
	prop int32
	area int32
}

type record struct {
	mu    sync.RWMutex
	value vehicle.PropValue
}

// PropertyStore maps (property, area) pairs to their current value. Records
// are created by seeding or by the first successful write and never removed.
// The store-level lock only guards the record map; each record carries its own
// lock so writes to disjoint properties do not contend.
type PropertyStore struct {
	mu      sync.RWMutex
	records map[key]*record
}

// New seeds a store from the property configuration: global properties with a
// default get one entry, area-scoped properties get one entry per configured
// area using the per-area override if present, else the property default, else
// no entry.
func New(props []config.PropertyConfig) *PropertyStore {
	s := &PropertyStore{records: make(map[key]*record, len(props))}
	for _, prop := range props {
		if prop.Global() {
			if prop.InitialValue == nil || prop.InitialValue.IsEmpty() {
				continue
			}
			s.seed(prop.Prop, vehicle.AreaGlobal, *prop.InitialValue)
			continue
		}
		for _, area := range prop.Areas {
			if override, ok := prop.InitialAreaValues[area.AreaID]; ok {
				s.seed(prop.Prop, area.AreaID, override)
				continue
			}
			if prop.InitialValue != nil && !prop.InitialValue.IsEmpty() {
				s.seed(prop.Prop, area.AreaID, *prop.InitialValue)
			}
		}
	}
	return s
}

func (s *PropertyStore) seed(prop, area int32, value vehicle.RawValue) {
	s.records[key{prop: prop, area: area}] = &record{value: vehicle.PropValue{
		Prop:   prop,
		AreaID: area,
		Status: vehicle.PropStatusAvailable,
		Value:  value.Clone(),
	}}
}

// Read returns a copy of the stored value for the pair, if present. It never
// blocks behind other reads.
func (s *PropertyStore) Read(prop, area int32) (vehicle.PropValue, bool) {
	s.mu.RLock()
	rec, ok := s.records[key{prop: prop, area: area}]
	s.mu.RUnlock()
	if !ok {
		return vehicle.PropValue{}, false
	}
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.value.Clone(), true
}

// Write overwrites (or creates) the entry for the value's pair and returns the
// prior value, nil when the pair had none. The stored status is forced to
// available regardless of what the caller attached: the store is the sole
// authority on status, and a successful write always yields a resolvable
// value.
func (s *PropertyStore) Write(value vehicle.PropValue) *vehicle.PropValue {
	stored := value.Clone()
	stored.Status = vehicle.PropStatusAvailable

	k := key{prop: value.Prop, area: value.AreaID}
	s.mu.RLock()
	rec, ok := s.records[k]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		rec, ok = s.records[k]
		if !ok {
			s.records[k] = &record{value: stored}
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
	}

	rec.mu.Lock()
	prev := rec.value.Clone()
	rec.value = stored
	rec.mu.Unlock()
	return &prev
}

// Len reports the number of stored entries.
func (s *PropertyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns copies of all stored values ordered by property then area.
func (s *PropertyStore) Snapshot() []vehicle.PropValue {
	s.mu.RLock()
	records := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	out := make([]vehicle.PropValue, 0, len(records))
	for _, rec := range records {
		rec.mu.RLock()
		out = append(out, rec.value.Clone())
		rec.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prop != out[j].Prop {
			return out[i].Prop < out[j].Prop
		}
		return out[i].AreaID < out[j].AreaID
	})
	return out
}
