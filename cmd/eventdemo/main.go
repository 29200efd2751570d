// Package main exercises the event package end to end: every
// subscription flavor, every publication mode, and a multi-publisher
// stress run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/u-stone/eventsystem/event"
	"github.com/u-stone/eventsystem/internal/config"
	"github.com/u-stone/eventsystem/internal/events"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *verbose {
		cfg.Verbose = true
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	if cfg.Verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	events.SetHeartbeatLogger(logger)

	center := event.NewAsyncCenter(event.WithLogger(logger))
	defer center.Stop()

	var recorder *event.Recorder
	if cfg.RecordPath != "" {
		f, err := os.OpenFile(cfg.RecordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open record file: %v\n", err)
			return 1
		}
		defer f.Close()
		recorder = event.NewRecorder(f)
		event.RecordEvents[events.StatusMessage](center, recorder, "status_message")
		event.RecordEvents[events.ScoreChanged](center, recorder, "score_changed")
	}

	demoObservedExpiry(logger, center)
	demoOwned(logger, center)
	demoCallback(logger, center)
	demoStatic(logger, center)
	demoTimed(logger, center, cfg)
	demoWireAdapter(logger, center)
	demoStress(logger, center, cfg)

	stats := center.Stats()
	logger.Info().
		Uint64("published", stats.Published).
		Uint64("invocations", stats.Invocations).
		Uint64("faults", stats.Faults).
		Uint64("slow", stats.SlowInvocations).
		Msg("final counters")
	return 0
}

// demoObservedExpiry shows that an observed handler stops receiving
// events once its owner releases the last strong reference.
func demoObservedExpiry(logger zerolog.Logger, c *event.AsyncCenter) {
	logger.Info().Msg("scenario: observed handler expiry")

	counter := &events.Counter{Name: "observed"}
	ref := event.NewHandlerRef(counter)
	event.RegisterObserved[events.StatusMessage](c, ref)

	c.Publish(events.StatusMessage{Text: "before release"})
	waitIdle(c)

	ref.Release()
	c.Publish(events.StatusMessage{Text: "after release"})
	waitIdle(c)

	logger.Info().Uint64("delivered", counter.Count()).Msg("observed handler done")
}

// demoOwned registers a handler the center keeps alive without any
// reference held by the caller.
func demoOwned(logger zerolog.Logger, c *event.AsyncCenter) {
	logger.Info().Msg("scenario: owned handler")

	counter := &events.Counter{Name: "owned"}
	event.RegisterOwned[events.ScoreChanged](c, counter)

	c.Publish(events.ScoreChanged{Player: "ada", Delta: 10})
	c.Publish(events.ScoreChanged{Player: "bob", Delta: -3})
	waitIdle(c)

	logger.Info().Uint64("delivered", counter.Count()).Msg("owned handler done")
	event.UnregisterHandler[events.ScoreChanged](c, counter)
}

// demoCallback registers a typed callback, receives one event, then
// unregisters by handle.
func demoCallback(logger zerolog.Logger, c *event.AsyncCenter) {
	logger.Info().Msg("scenario: callback")

	handle := event.RegisterCallback(c, func(_ context.Context, e events.StatusMessage) error {
		logger.Info().Str("text", e.Text).Msg("callback received")
		return nil
	})

	c.Publish(events.StatusMessage{Text: "hello from callback"})
	waitIdle(c)

	c.Unregister(handle)
	c.Publish(events.StatusMessage{Text: "nobody hears this"})
	waitIdle(c)
}

// demoStatic routes a self-handled event type through its own
// HandleEvent method.
func demoStatic(logger zerolog.Logger, c *event.AsyncCenter) {
	logger.Info().Msg("scenario: static self-handler")

	handle := event.RegisterStatic[events.Heartbeat](c)
	defer c.Unregister(handle)

	c.Publish(events.Heartbeat{Seq: 1})
	c.Publish(events.Heartbeat{Seq: 2})
	waitIdle(c)
}

// demoTimed exercises delayed and at-time publication.
func demoTimed(logger zerolog.Logger, c *event.AsyncCenter, cfg config.Config) {
	logger.Info().Msg("scenario: timed publication")

	received := make(chan string, 2)
	handle := event.RegisterCallback(c, func(_ context.Context, e events.StatusMessage) error {
		received <- e.Text
		return nil
	})
	defer c.Unregister(handle)

	start := time.Now()
	c.PublishDelayed(events.StatusMessage{Text: "delayed"}, time.Duration(cfg.DelayMS)*time.Millisecond)
	c.PublishAt(events.StatusMessage{Text: "scheduled"}, start.Add(time.Duration(cfg.ScheduleAheadMS)*time.Millisecond))

	for i := 0; i < 2; i++ {
		text := <-received
		logger.Info().
			Str("text", text).
			Dur("elapsed", time.Since(start)).
			Msg("timed event arrived")
	}
}

// demoWireAdapter ingests serialized events through the JSON adapter.
func demoWireAdapter(logger zerolog.Logger, c *event.AsyncCenter) {
	logger.Info().Msg("scenario: wire adapter")

	adapter := event.NewWireAdapter(c)
	defer adapter.Close()
	events.RegisterDecoders(adapter)

	counter := &events.Counter{Name: "wire"}
	event.RegisterOwned[events.ScoreChanged](c, counter)
	defer event.UnregisterHandler[events.ScoreChanged](c, counter)

	docs := [][]byte{
		[]byte(`{"type":"score_changed","payload":{"player":"ada","delta":5}}`),
		[]byte(`{"type":"score_changed","payload":{"player":"bob","delta":7},"delay_ms":50}`),
		[]byte(`{"type":"unknown_kind","payload":{}}`),
	}
	for _, doc := range docs {
		if err := adapter.Ingest(doc); err != nil {
			logger.Warn().Err(err).Msg("ingest rejected")
		}
	}

	time.Sleep(100 * time.Millisecond)
	waitIdle(c)
	logger.Info().Uint64("delivered", counter.Count()).Msg("wire adapter done")
}

// demoStress publishes from several goroutines at once and verifies
// every event arrives exactly once.
func demoStress(logger zerolog.Logger, c *event.AsyncCenter, cfg config.Config) {
	logger.Info().
		Int("publishers", cfg.Publishers).
		Int("events_each", cfg.EventsPerPublisher).
		Msg("scenario: stress")

	counter := &events.Counter{Name: "stress"}
	event.RegisterOwned[events.LoadSample](c, counter)
	defer event.UnregisterHandler[events.LoadSample](c, counter)

	start := time.Now()
	var wg sync.WaitGroup
	for p := 0; p < cfg.Publishers; p++ {
		wg.Add(1)
		go func(publisher int) {
			defer wg.Done()
			for i := 0; i < cfg.EventsPerPublisher; i++ {
				c.Publish(events.LoadSample{Publisher: publisher, Seq: i})
			}
		}(p)
	}
	wg.Wait()
	waitIdle(c)

	want := uint64(cfg.Publishers) * uint64(cfg.EventsPerPublisher)
	got := counter.Count()
	evt := logger.Info()
	if got != want {
		evt = logger.Error()
	}
	evt.Uint64("want", want).
		Uint64("got", got).
		Dur("elapsed", time.Since(start)).
		Msg("stress done")
}

// waitIdle polls until the center's queue is empty. Dispatch of the
// last drained batch may still be in flight for a moment afterwards,
// which the demos tolerate.
func waitIdle(c *event.AsyncCenter) {
	for c.Stats().QueueDepth > 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
}
