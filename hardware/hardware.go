// Package hardware implements the fake vehicle bus façade: batched, validated
// get/set on top of the property store with change-notification fan-out.
package hardware

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/timzifer/vehiclesim/clock"
	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/store"
	"github.com/timzifer/vehiclesim/telemetry"
	"github.com/timzifer/vehiclesim/vehicle"
)

// GetValuesCallback receives the ordered per-item results of one get batch.
type GetValuesCallback func(results []vehicle.GetValueResult)

// SetValuesCallback receives the ordered per-item results of one set batch.
type SetValuesCallback func(results []vehicle.SetValueResult)

// PropertyChangeListener receives the change events produced within one set
// batch as a single delivery.
type PropertyChangeListener func(values []vehicle.PropValue)

// FakeHardware simulates the vehicle property bus. All request processing
// completes synchronously: result callbacks fire exactly once per accepted
// batch, before the outer call returns, and change events reach the listener
// before the result callback.
type FakeHardware struct {
	cfg       *config.Config
	props     map[int32]*config.PropertyConfig
	store     *store.PropertyStore
	clock     clock.Clock
	logger    zerolog.Logger
	collector telemetry.Collector
	rules     map[propArea][]*linkedRule

	listenerMu sync.RWMutex
	listener   PropertyChangeListener

	// setMu serializes set batches so one batch's change events form a
	// single uninterleaved delivery.
	setMu sync.Mutex
}

type propArea struct {
	prop int32
	area int32
}

// Option customises construction of a FakeHardware.
type Option func(*FakeHardware)

// WithClock overrides the monotonic clock used for write timestamps.
func WithClock(c clock.Clock) Option {
	return func(h *FakeHardware) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithTelemetry attaches a telemetry collector.
func WithTelemetry(collector telemetry.Collector) Option {
	return func(h *FakeHardware) {
		if collector != nil {
			h.collector = collector
		}
	}
}

// New builds a façade over a freshly seeded store.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*FakeHardware, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &FakeHardware{
		cfg:       cfg,
		props:     make(map[int32]*config.PropertyConfig, len(cfg.Properties)),
		store:     store.New(cfg.Properties),
		clock:     clock.System(),
		logger:    logger.With().Str("component", "hardware").Logger(),
		collector: telemetry.Noop(),
	}
	for i := range cfg.Properties {
		prop := &cfg.Properties[i]
		h.props[prop.Prop] = prop
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	h.rules = make(map[propArea][]*linkedRule)
	for _, rule := range rules {
		key := propArea{prop: rule.cfg.Trigger.Prop, area: rule.cfg.Trigger.AreaID}
		h.rules[key] = append(h.rules[key], rule)
	}
	h.collector.SetStoredProperties(h.store.Len())
	return h, nil
}

// AllPropertyConfigs returns the full property configuration table.
func (h *FakeHardware) AllPropertyConfigs() []config.PropertyConfig {
	out := make([]config.PropertyConfig, len(h.cfg.Properties))
	copy(out, h.cfg.Properties)
	return out
}

// RegisterOnPropertyChangeEvent installs the change listener. The last
// registration wins; a nil listener deregisters. Without a listener, change
// events are dropped, not buffered.
func (h *FakeHardware) RegisterOnPropertyChangeEvent(listener PropertyChangeListener) {
	h.listenerMu.Lock()
	h.listener = listener
	h.listenerMu.Unlock()
}

// GetValues resolves each request independently and delivers all results
// through a single callback invocation, preserving request order. Item
// failures never fail the batch; only a malformed batch yields a non-OK
// return, in which case the callback does not fire.
func (h *FakeHardware) GetValues(cb GetValuesCallback, requests []vehicle.GetValueRequest) vehicle.StatusCode {
	if cb == nil {
		h.logger.Error().Msg("get batch rejected: nil result callback")
		return vehicle.StatusInvalidArg
	}
	if !uniqueGetRequestIDs(requests) {
		h.logger.Error().Msg("get batch rejected: duplicate request ids")
		return vehicle.StatusInvalidArg
	}

	results := make([]vehicle.GetValueResult, 0, len(requests))
	for _, req := range requests {
		result := vehicle.GetValueResult{RequestID: req.RequestID}
		prop, ok := h.props[req.Prop]
		switch {
		case !ok || !prop.HasArea(req.AreaID):
			result.Status = vehicle.StatusInvalidArg
		default:
			if value, found := h.store.Read(req.Prop, req.AreaID); found {
				result.Status = vehicle.StatusOK
				result.Value = &value
			} else {
				result.Status = vehicle.StatusNotAvailable
			}
		}
		h.collector.IncGetRequests(result.Status.String(), 1)
		results = append(results, result)
	}
	cb(results)
	return vehicle.StatusOK
}

// SetValues applies each request independently: the caller's timestamp is kept
// (a zero timestamp is stamped from the clock), the stored status is forced to
// available and the value is written through to the store. Writes that create
// or change an entry produce change events, delivered to the listener as one
// batch before the result callback fires.
func (h *FakeHardware) SetValues(cb SetValuesCallback, requests []vehicle.SetValueRequest) vehicle.StatusCode {
	if cb == nil {
		h.logger.Error().Msg("set batch rejected: nil result callback")
		return vehicle.StatusInvalidArg
	}
	if !uniqueSetRequestIDs(requests) {
		h.logger.Error().Msg("set batch rejected: duplicate request ids")
		return vehicle.StatusInvalidArg
	}

	h.setMu.Lock()
	results := make([]vehicle.SetValueResult, 0, len(requests))
	var events []vehicle.PropValue
	for _, req := range requests {
		result := vehicle.SetValueResult{RequestID: req.RequestID}
		prop, ok := h.props[req.Value.Prop]
		if !ok || !prop.HasArea(req.Value.AreaID) {
			result.Status = vehicle.StatusInvalidArg
			h.collector.IncSetRequests(result.Status.String(), 1)
			results = append(results, result)
			continue
		}

		value := req.Value.Clone()
		if value.Timestamp == 0 {
			value.Timestamp = h.clock.ElapsedRealtimeNano()
		}
		events = h.apply(value, events, make(map[propArea]struct{}))
		result.Status = vehicle.StatusOK
		h.collector.IncSetRequests(result.Status.String(), 1)
		results = append(results, result)
	}
	h.setMu.Unlock()

	h.deliver(events)
	cb(results)
	return vehicle.StatusOK
}

// apply writes one value through the store and appends a change event when the
// write created the entry or altered its payload. Linked rules fire after the
// trigger write; their derived writes join the same event batch. visited
// breaks rule cycles: a pair is written at most once per originating request.
func (h *FakeHardware) apply(value vehicle.PropValue, events []vehicle.PropValue, visited map[propArea]struct{}) []vehicle.PropValue {
	key := propArea{prop: value.Prop, area: value.AreaID}
	if _, ok := visited[key]; ok {
		h.logger.Warn().Int32("prop", value.Prop).Int32("area", value.AreaID).Msg("linked rule cycle detected, skipping write")
		return events
	}
	visited[key] = struct{}{}

	stored := value.Clone()
	stored.Status = vehicle.PropStatusAvailable
	prev := h.store.Write(stored)
	if prev == nil || !prev.Value.Equal(stored.Value) {
		events = append(events, stored.Clone())
	}
	h.collector.SetStoredProperties(h.store.Len())

	for _, rule := range h.rules[key] {
		if rule.cfg.Disable {
			continue
		}
		derived, err := rule.evaluate(stored)
		if err != nil {
			h.logger.Warn().Err(err).Str("rule", rule.cfg.ID).Msg("linked rule evaluation failed")
			continue
		}
		events = h.apply(vehicle.PropValue{
			Prop:      rule.cfg.Target.Prop,
			AreaID:    rule.cfg.Target.AreaID,
			Timestamp: stored.Timestamp,
			Value:     derived,
		}, events, visited)
	}
	return events
}

func (h *FakeHardware) deliver(events []vehicle.PropValue) {
	if len(events) == 0 {
		return
	}
	h.listenerMu.RLock()
	listener := h.listener
	h.listenerMu.RUnlock()
	if listener == nil {
		h.logger.Debug().Int("events", len(events)).Msg("dropping change events: no listener registered")
		return
	}
	h.collector.IncChangeEvents(len(events))
	listener(events)
}

// PropertyStates returns a snapshot of every stored value together with its
// configured name, ordered by property then area.
func (h *FakeHardware) PropertyStates() []PropertyState {
	values := h.store.Snapshot()
	out := make([]PropertyState, 0, len(values))
	for _, value := range values {
		state := PropertyState{Value: value}
		if prop, ok := h.props[value.Prop]; ok {
			state.Name = prop.Name
		}
		out = append(out, state)
	}
	return out
}

// PropertyState couples a stored value with its configured display name.
type PropertyState struct {
	Name  string            `json:"name,omitempty"`
	Value vehicle.PropValue `json:"value"`
}

func uniqueGetRequestIDs(requests []vehicle.GetValueRequest) bool {
	seen := make(map[int64]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.RequestID]; ok {
			return false
		}
		seen[req.RequestID] = struct{}{}
	}
	return true
}

func uniqueSetRequestIDs(requests []vehicle.SetValueRequest) bool {
	seen := make(map[int64]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.RequestID]; ok {
			return false
		}
		seen[req.RequestID] = struct{}{}
	}
	return true
}
