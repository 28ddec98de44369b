package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ID809_CONFIG", "")
	t.Setenv("ID809_LOGGING_LEVEL", "error")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"id809"}, args...))
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "--simulate", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Device info:    ID809_V1.4")
	assert.Contains(t, out, "Capacity:       80 slots")
	assert.Contains(t, out, "Serial number:  SIM0000000000001")
	assert.Contains(t, out, "Security level: 3")
}

func TestInfoFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id809.yaml")
	yaml := []byte("transport:\n  kind: sim\n  sim:\n    deviceInfo: ID809_V2.3\nsensor:\n  variant: structured\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	out, err := run(t, "--config", path, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Capacity:       200 slots")
}

func TestDetect(t *testing.T) {
	out, err := run(t, "--transport", "sim", "detect")
	require.NoError(t, err)
	assert.Equal(t, "finger present\n", out)
}

func TestEnroll(t *testing.T) {
	out, err := run(t, "--simulate", "enroll")
	require.NoError(t, err)
	assert.Contains(t, out, "Place finger (sample 1/3)")
	assert.Contains(t, out, "Place finger (sample 3/3)")
	assert.Contains(t, out, "Lift finger")
	assert.Contains(t, out, "Stored template 1 in")
}

func TestEnrollExplicitID(t *testing.T) {
	out, err := run(t, "--simulate", "enroll", "--id", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored template 42")

	_, err = run(t, "--simulate", "enroll", "--id", "81")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range 1-80")
}

func TestVerify(t *testing.T) {
	out, err := run(t, "--simulate", "verify", "--id", "7", "--attempts", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored template 7")
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("match: template 7\n")))
}

func TestDelete(t *testing.T) {
	out, err := run(t, "--simulate", "delete", "--id", "3")
	require.NoError(t, err)
	assert.Equal(t, "deleted template 3\n", out)

	out, err = run(t, "--simulate", "delete", "--all")
	require.NoError(t, err)
	assert.Equal(t, "deleted all templates\n", out)

	_, err = run(t, "--simulate", "delete")
	assert.EqualError(t, err, "delete needs --id or --all")
}

func TestLED(t *testing.T) {
	_, err := run(t, "--simulate", "led", "--mode", "breathing", "--color", "red")
	require.NoError(t, err)

	_, err = run(t, "--simulate", "led", "--mode", "strobe")
	assert.EqualError(t, err, `unknown LED mode "strobe"`)

	_, err = run(t, "--simulate", "led", "--color", "orange")
	assert.EqualError(t, err, `unknown LED color "orange"`)

	_, err = run(t, "--simulate", "led", "--blink", "300")
	assert.Error(t, err)
}

func TestEmptySlot(t *testing.T) {
	out, err := run(t, "--simulate", "empty-slot")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestSecurityLevel(t *testing.T) {
	out, err := run(t, "--simulate", "security-level", "--set", "5")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = run(t, "--simulate", "security-level", "--set", "9")
	assert.Error(t, err)
}

func TestStandby(t *testing.T) {
	out, err := run(t, "--simulate", "standby")
	require.NoError(t, err)
	assert.Equal(t, "standby\n", out)
}

func TestUnknownTransport(t *testing.T) {
	_, err := run(t, "--transport", "usb", "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `transport.kind "usb"`)
}

func TestMetricsHandler(t *testing.T) {
	m, handler := newMetrics()
	m.Enrollments.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `id809_enrollments_total{result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
