package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by the simulated bus.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with the get/set request paths.
type Collector interface {
	IncGetRequests(status string, count int)
	IncSetRequests(status string, count int)
	IncChangeEvents(count int)
	SetStoredProperties(count int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncGetRequests(string, int) {}
func (noopCollector) IncSetRequests(string, int) {}
func (noopCollector) IncChangeEvents(int)        {}
func (noopCollector) SetStoredProperties(int)    {}

// PrometheusCollector exposes bus telemetry via Prometheus.
type PrometheusCollector struct {
	getRequests  *prometheus.CounterVec
	setRequests  *prometheus.CounterVec
	changeEvents prometheus.Counter
	storedProps  prometheus.Gauge
}

var (
	getRequestCounter      *prometheus.CounterVec
	getRequestCounterLock  sync.Mutex
	setRequestCounter      *prometheus.CounterVec
	setRequestCounterLock  sync.Mutex
	changeEventCounter     prometheus.Counter
	changeEventCounterLock sync.Mutex
	storedPropsGauge       prometheus.Gauge
	storedPropsGaugeLock   sync.Mutex
)

// NewPrometheusCollector registers the required metrics with the provided registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	getRequestCounterLock.Lock()
	if getRequestCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vehiclesim_get_requests_total",
			Help: "Number of processed get requests per item status.",
		}, []string{"status"})
		registered, err := registerCounterVec(reg, counter)
		if err != nil {
			getRequestCounterLock.Unlock()
			return nil, err
		}
		getRequestCounter = registered
	}
	getRequestCounterLock.Unlock()

	setRequestCounterLock.Lock()
	if setRequestCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vehiclesim_set_requests_total",
			Help: "Number of processed set requests per item status.",
		}, []string{"status"})
		registered, err := registerCounterVec(reg, counter)
		if err != nil {
			setRequestCounterLock.Unlock()
			return nil, err
		}
		setRequestCounter = registered
	}
	setRequestCounterLock.Unlock()

	changeEventCounterLock.Lock()
	if changeEventCounter == nil {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vehiclesim_change_events_total",
			Help: "Number of property change events delivered to the listener.",
		})
		if err := reg.Register(counter); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
					counter = existing
				} else {
					changeEventCounterLock.Unlock()
					return nil, err
				}
			} else {
				changeEventCounterLock.Unlock()
				return nil, err
			}
		}
		changeEventCounter = counter
	}
	changeEventCounterLock.Unlock()

	storedPropsGaugeLock.Lock()
	if storedPropsGauge == nil {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vehiclesim_stored_properties",
			Help: "Number of property/area entries currently held by the store.",
		})
		if err := reg.Register(gauge); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
					gauge = existing
				} else {
					storedPropsGaugeLock.Unlock()
					return nil, err
				}
			} else {
				storedPropsGaugeLock.Unlock()
				return nil, err
			}
		}
		storedPropsGauge = gauge
	}
	storedPropsGaugeLock.Unlock()

	return &PrometheusCollector{
		getRequests:  getRequestCounter,
		setRequests:  setRequestCounter,
		changeEvents: changeEventCounter,
		storedProps:  storedPropsGauge,
	}, nil
}

func registerCounterVec(reg prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(counter); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}

// IncGetRequests counts get request outcomes per status label.
func (p *PrometheusCollector) IncGetRequests(status string, count int) {
	if p == nil || p.getRequests == nil || count == 0 {
		return
	}
	p.getRequests.WithLabelValues(status).Add(float64(count))
}

// IncSetRequests counts set request outcomes per status label.
func (p *PrometheusCollector) IncSetRequests(status string, count int) {
	if p == nil || p.setRequests == nil || count == 0 {
		return
	}
	p.setRequests.WithLabelValues(status).Add(float64(count))
}

// IncChangeEvents counts delivered change events.
func (p *PrometheusCollector) IncChangeEvents(count int) {
	if p == nil || p.changeEvents == nil || count == 0 {
		return
	}
	p.changeEvents.Add(float64(count))
}

// SetStoredProperties updates the gauge tracking store occupancy.
func (p *PrometheusCollector) SetStoredProperties(count int) {
	if p == nil || p.storedProps == nil {
		return
	}
	p.storedProps.Set(float64(count))
}
