package inspector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/hardware"
	"github.com/timzifer/vehiclesim/vehicle"
)

func startInspector(t *testing.T) (*Server, *hardware.FakeHardware) {
	t.Helper()
	cfg := &config.Config{Properties: config.DefaultProperties()}
	hw, err := hardware.New(cfg, zerolog.New(io.Discard))
	require.NoError(t, err)

	srv, err := New("127.0.0.1:0", hw, zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv, hw
}

func httpGet(t *testing.T, url string) *http.Response {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	return resp
}

func TestStateEndpoint(t *testing.T) {
	srv, hw := startInspector(t)

	status := hw.SetValues(func([]vehicle.SetValueResult) {}, []vehicle.SetValueRequest{{
		RequestID: 1,
		Value: vehicle.PropValue{
			Prop:   vehicle.PropTirePressure,
			AreaID: vehicle.AreaWheelFrontLeft,
			Value:  vehicle.RawValue{FloatValues: []float32{170}},
		},
	}})
	require.Equal(t, vehicle.StatusOK, status)

	resp := httpGet(t, fmt.Sprintf("http://%s/state", srv.Addr()))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload struct {
		Properties []hardware.PropertyState `json:"properties"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.Properties)

	var found bool
	for _, state := range payload.Properties {
		if state.Value.Prop == vehicle.PropTirePressure && state.Value.AreaID == vehicle.AreaWheelFrontLeft {
			found = true
			require.Equal(t, "tire_pressure", state.Name)
			require.Equal(t, []float32{170}, state.Value.Value.FloatValues)
		}
	}
	require.True(t, found)
}

func TestConfigsEndpoint(t *testing.T) {
	srv, _ := startInspector(t)

	resp := httpGet(t, fmt.Sprintf("http://%s/configs", srv.Addr()))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var configs []config.PropertyConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&configs))
	require.Len(t, configs, len(config.DefaultProperties()))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := startInspector(t)

	resp := httpGet(t, fmt.Sprintf("http://%s/healthz", srv.Addr()))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestStateRejectsNonGet(t *testing.T) {
	srv, _ := startInspector(t)

	resp, err := http.Post(fmt.Sprintf("http://%s/state", srv.Addr()), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
