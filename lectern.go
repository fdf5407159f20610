// Package lectern drives the feedback LED strip of the lectern: it owns the
// output device, steps the active pattern from a non-blocking host loop and
// accepts triggers from other goroutines.
package lectern

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/lectern/internal/clock"
	"libdb.so/lectern/internal/httpapi"
	"libdb.so/lectern/internal/led"
	"libdb.so/lectern/internal/opc"
	"libdb.so/lectern/internal/scheduler"
)

// Trigger asks the daemon to start a pattern. Starting scheduler.Off stops
// the running pattern.
type Trigger struct {
	Pattern scheduler.Kind
	// ID identifies the trigger in logs. It may be empty.
	ID string
}

// Daemon is the main lectern daemon.
type Daemon struct {
	cfg      *Config
	logger   *slog.Logger
	triggers chan Trigger

	mu     sync.Mutex
	status scheduler.Snapshot
}

var _ httpapi.Controller = (*Daemon)(nil)

// NewDaemon creates a new lectern daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		triggers: make(chan Trigger, 8),
	}, nil
}

// Trigger queues a trigger for the host loop. It never blocks and reports
// false if the queue is full.
func (d *Daemon) Trigger(k scheduler.Kind, id string) bool {
	select {
	case d.triggers <- Trigger{Pattern: k, ID: id}:
		return true
	default:
		d.logger.Warn(
			"dropping trigger, queue is full",
			"pattern", k,
			"id", id)
		return false
	}
}

// Status returns what the host loop last reported.
func (d *Daemon) Status() scheduler.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Run opens the configured output and starts the daemon. It blocks until the
// given context is canceled or something fails.
func (d *Daemon) Run(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)

	dev, err := d.openDevice(ctx, errg)
	if err != nil {
		return err
	}

	errg.Go(func() error {
		return d.RunDevice(ctx, dev)
	})

	if d.cfg.Listen != "" {
		errg.Go(func() error {
			return d.serveHTTP(ctx)
		})
	}

	return errg.Wait()
}

func (d *Daemon) openDevice(ctx context.Context, errg *errgroup.Group) (led.Device, error) {
	switch d.cfg.Output.Kind {
	case SerialOutput:
		dev, port, err := OpenSerial(d.cfg.Output, d.cfg.NumLEDs, d.logger)
		if err != nil {
			return nil, err
		}
		errg.Go(func() error {
			<-ctx.Done()
			d.logger.Debug("closing serial port")
			if err := port.Close(); err != nil {
				return errors.Wrap(err, "failed to close serial port")
			}
			return ctx.Err()
		})
		errg.Go(func() error {
			return dev.Run(ctx)
		})
		return dev, nil

	case OPCOutput:
		return opc.Dial(d.cfg.Output.Server, d.cfg.Output.Channel, d.logger)

	case LogOutput:
		return led.NewLogDevice(d.logger), nil

	default:
		return nil, errors.Errorf("unknown output kind %q", d.cfg.Output.Kind)
	}
}

// RunDevice runs the host loop against dev until ctx is canceled. The loop
// never sleeps on behalf of a pattern: it ticks the scheduler at the
// configured rate and applies triggers between ticks.
func (d *Daemon) RunDevice(ctx context.Context, dev led.Device) error {
	strip, err := led.NewStrip(d.cfg.NumLEDs, dev)
	if err != nil {
		return err
	}

	preemption, err := scheduler.ParsePreemption(d.cfg.Preemption)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(strip, clock.NewSystem(), d.logger, scheduler.Options{
		Preemption: preemption,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create scheduler")
	}

	ticker := time.NewTicker(d.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := sched.Stop(); err != nil {
				d.logger.Warn(
					"failed to turn LEDs off",
					"error", err)
			}
			return ctx.Err()

		case t := <-d.triggers:
			d.logger.Info(
				"pattern triggered",
				"pattern", t.Pattern,
				"id", t.ID)
			if err := sched.Start(t.Pattern); err != nil {
				return err
			}

		case <-ticker.C:
			if err := sched.Tick(); err != nil {
				return err
			}
		}

		d.mu.Lock()
		d.status = sched.Snapshot()
		d.mu.Unlock()
	}
}

func (d *Daemon) serveHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:    d.cfg.Listen,
		Handler: httpapi.New(d, d.logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		d.logger.Debug("shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			d.logger.Debug(
				"failed to shut down HTTP server",
				"error", err)
		}
	}()

	d.logger.Info("serving HTTP trigger API", "addr", d.cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "HTTP server failed")
	}
	return ctx.Err()
}
