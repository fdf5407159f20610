package lectern

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
num_leds = 60
rate = 500
preemption = "clear"
listen = ":8080"

[output]
kind = "serial"
device = "/dev/ttyACM0"
ack_timeout = "100ms"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, &Config{
		NumLEDs:    60,
		Rate:       500,
		Preemption: "clear",
		Listen:     ":8080",
		Output: OutputConfig{
			Kind:       SerialOutput,
			Device:     "/dev/ttyACM0",
			Baud:       115200,
			AckTimeout: TOMLDuration(100 * time.Millisecond),
		},
	}, cfg)
	assert.Equal(t, 2*time.Millisecond, cfg.TickInterval())
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
[output]
kind = "opc"
server = "localhost:7890"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 39, cfg.NumLEDs)
	assert.Equal(t, 1000, cfg.Rate)
	assert.Equal(t, "abrupt", cfg.Preemption)
	assert.Equal(t, time.Millisecond, cfg.TickInterval())
	assert.Equal(t, TOMLDuration(250*time.Millisecond), cfg.Output.AckTimeout)
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
[output]
ack_timeout = "soon"
`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errmsg string
	}{
		{"no LEDs", func(c *Config) { c.NumLEDs = -1 }, "invalid number of LEDs"},
		{"too many LEDs", func(c *Config) { c.NumLEDs = 70000 }, "invalid number of LEDs"},
		{"short strip", func(c *Config) { c.NumLEDs = 4 }, "invalid number of LEDs"},
		{"bad rate", func(c *Config) { c.Rate = -5 }, "invalid tick rate"},
		{"rate too high", func(c *Config) { c.Rate = MaxRate + 1 }, "invalid tick rate"},
		{"bad preemption", func(c *Config) { c.Preemption = "fade" }, "fade"},
		{"serial without device", func(c *Config) { c.Output.Device = "" }, "needs a device"},
		{"opc without server", func(c *Config) { c.Output.Kind = OPCOutput }, "needs a server"},
		{"unknown output", func(c *Config) { c.Output.Kind = "hdmi" }, "unknown output kind"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := &Config{Output: OutputConfig{Device: "/dev/ttyUSB0"}}
			cfg.Defaults()
			require.NoError(t, cfg.Validate())

			test.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), test.errmsg)
		})
	}
}

func TestTOMLDuration(t *testing.T) {
	var d TOMLDuration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, TOMLDuration(90*time.Second), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}
