package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/tankcombat/logger"
	"github.com/milk9111/tankcombat/prefabs"
)

func main() {
	levelName := flag.String("level", "world.yaml", "world spec in prefabs/ (embedded copy if absent on disk)")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose specs override the embedded ones")
	tickHz := flag.Float64("hz", 60, "simulation ticks per second")
	duration := flag.Float64("t", 30, "simulated seconds to run, 0 runs until interrupted")
	seed := flag.Int64("seed", 0, "random seed, 0 uses the level seed")
	logLevel := flag.String("log", "info", "log level")
	jsonLogs := flag.Bool("json", false, "log as JSON")
	watch := flag.Bool("watch", false, "hot reload AI tunables from the prefabs directory")
	realtime := flag.Bool("realtime", false, "pace ticks at wall clock speed (implied by -watch)")
	flag.Parse()

	if err := logger.Configure(*logLevel, *jsonLogs); err != nil {
		logger.Log.Fatal(err)
	}
	log := logger.Log
	prefabs.Dir = *prefabDir
	if *tickHz <= 0 {
		log.Fatalf("tanksim: tick rate must be positive, got %v", *tickHz)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := simOptions{Level: *levelName, TickHz: *tickHz, Seed: *seed}
	if *watch {
		watcher, err := prefabs.NewWatcher(*prefabDir)
		if err != nil {
			log.WithError(err).Fatal("tanksim: watch prefabs")
		}
		defer watcher.Close()
		go func() {
			for err := range watcher.Errors {
				log.WithError(err).Warn("tanksim: watcher")
			}
		}()
		opts.Changes = watcher.Events
		*realtime = true
	}

	sim, err := NewSim(ctx, opts, log)
	if err != nil {
		log.Fatal(err)
	}
	defer sim.Close()

	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Duration(float64(time.Second) / *tickHz))
		defer ticker.Stop()
	}

	for *duration <= 0 || sim.Now() < *duration {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}
		sim.Update()
	}
}

