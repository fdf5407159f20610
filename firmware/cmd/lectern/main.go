// Command lectern runs the feedback patterns on the board itself, triggered
// by the three buttons next to the strip.
package main

import (
	"log/slog"
	"machine"
	"time"

	"libdb.so/lectern/firmware"
	"libdb.so/lectern/internal/clock"
	"libdb.so/lectern/internal/led"
	"libdb.so/lectern/internal/scheduler"
)

// statusColors is what the onboard LED shows for each pattern.
var statusColors = map[scheduler.Kind]led.Color{
	scheduler.Off:     led.Off,
	scheduler.Win:     led.RGB(0, 0x20, 0),
	scheduler.Lose:    led.RGB(0x20, 0, 0),
	scheduler.Warning: led.RGB(0x20, 0x20, 0),
}

type trigger struct {
	button *firmware.Button
	kind   scheduler.Kind
}

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	strip, err := led.NewStrip(firmware.NumLEDs, firmware.NewStrip(firmware.StripPin))
	if err != nil {
		fatal(logger, "failed to create strip", err)
	}

	clk := clock.NewSystem()

	sched, err := scheduler.New(strip, clk, logger, scheduler.Options{})
	if err != nil {
		fatal(logger, "failed to create scheduler", err)
	}

	status := firmware.NewStatusLED()
	triggers := []trigger{
		{firmware.NewButton(firmware.WinPin), scheduler.Win},
		{firmware.NewButton(firmware.LosePin), scheduler.Lose},
		{firmware.NewButton(firmware.WarningPin), scheduler.Warning},
	}

	for {
		now := clk.Now()
		for _, t := range triggers {
			if t.button.Pressed(now) {
				if err := sched.Start(t.kind); err != nil {
					logger.Error("failed to start pattern", "pattern", t.kind, "error", err)
				}
			}
		}

		if err := sched.Tick(); err != nil {
			logger.Error("pattern failed", "error", err)
			sched.Stop()
		}

		status.Set(statusColors[sched.Active()])
		time.Sleep(time.Millisecond)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	for {
		time.Sleep(time.Second)
	}
}
