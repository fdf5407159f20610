package lectern

import (
	"encoding"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/lectern/internal/pattern"
	"libdb.so/lectern/internal/scheduler"
)

// Config is the configuration for the lectern daemon.
type Config struct {
	// NumLEDs is the number of LEDs on the strip.
	NumLEDs int `toml:"num_leds"`
	// Rate is how many times per second the active pattern is stepped.
	Rate int `toml:"rate"`
	// Preemption is what happens to the strip when a pattern is triggered
	// while another is running: "abrupt" or "clear".
	Preemption string `toml:"preemption"`
	// Listen is the address of the HTTP trigger API. Empty disables it.
	Listen string `toml:"listen"`
	// Output is where frames go.
	Output OutputConfig `toml:"output"`
}

// OutputConfig is the configuration for the LED output device.
type OutputConfig struct {
	Kind OutputKind `toml:"kind"`

	// Device is the path to the serial device of the LED controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// AckTimeout is how long to wait for the controller to acknowledge a
	// frame before sending the next one anyway.
	AckTimeout TOMLDuration `toml:"ack_timeout"`

	// Server is the host:port of the OPC server.
	Server string `toml:"server"`
	// Channel is the OPC channel. 0 broadcasts to all strips.
	Channel uint8 `toml:"channel"`
}

// OutputKind is the kind of output device.
type OutputKind string

const (
	// SerialOutput drives an LED controller speaking ledserial.
	SerialOutput OutputKind = "serial"
	// OPCOutput drives an Open Pixel Control server such as Fadecandy.
	OPCOutput OutputKind = "opc"
	// LogOutput only logs frames.
	LogOutput OutputKind = "log"
)

// MaxRate is the highest accepted tick rate, one tick every 100µs.
const MaxRate = 10000

// Defaults fills in unset fields.
func (c *Config) Defaults() {
	if c.NumLEDs == 0 {
		c.NumLEDs = 39
	}
	if c.Rate == 0 {
		c.Rate = 1000
	}
	if c.Preemption == "" {
		c.Preemption = "abrupt"
	}
	if c.Output.Kind == "" {
		c.Output.Kind = SerialOutput
	}
	if c.Output.Baud == 0 {
		c.Output.Baud = 115200
	}
	if c.Output.AckTimeout == 0 {
		c.Output.AckTimeout = TOMLDuration(250 * time.Millisecond)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.NumLEDs < pattern.WinChunks || c.NumLEDs > 0xFFFF {
		return errors.Errorf(
			"invalid number of LEDs: %d (need %d to %d)",
			c.NumLEDs, pattern.WinChunks, 0xFFFF)
	}
	if c.Rate < 1 || c.Rate > MaxRate {
		return errors.Errorf("invalid tick rate: %d (need 1 to %d)", c.Rate, MaxRate)
	}
	if _, err := scheduler.ParsePreemption(c.Preemption); err != nil {
		return err
	}

	switch c.Output.Kind {
	case SerialOutput:
		if c.Output.Device == "" {
			return errors.New("serial output needs a device")
		}
		if c.Output.Baud < 1 {
			return errors.Errorf("invalid baud rate: %d", c.Output.Baud)
		}
	case OPCOutput:
		if c.Output.Server == "" {
			return errors.New("opc output needs a server")
		}
	case LogOutput:
	default:
		return errors.Errorf("unknown output kind %q", c.Output.Kind)
	}

	return nil
}

// TickInterval returns the time between two ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Rate)
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Missing keys take their
// default values.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	config.Defaults()
	return &config, nil
}
