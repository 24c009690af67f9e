// Command waypath runs the obstacle depth engine against a stream of
// detection frames. Frames arrive as JSON lines from a replay file or
// stdin; the engine publishes its state over HTTP while the run lasts.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/waypath-data/waypath/internal/api"
	"github.com/waypath-data/waypath/internal/config"
	"github.com/waypath-data/waypath/internal/haptic"
	"github.com/waypath-data/waypath/internal/settings"
	"github.com/waypath-data/waypath/internal/timeutil"
	"github.com/waypath-data/waypath/internal/version"
	"github.com/waypath-data/waypath/internal/vision"
	"github.com/waypath-data/waypath/internal/vision/monitor"
)

var (
	listen       = flag.String("listen", ":8080", "HTTP listen address")
	dbFile       = flag.String("db", "waypath.db", "settings database path")
	tuningPath   = flag.String("config", "", "tuning config JSON (config/tuning.defaults.json when present, else built-in defaults)")
	replayFile   = flag.String("replay", "-", "detection frame JSONL file, - for stdin")
	hapticPort   = flag.String("haptic-port", "", "serial port for the haptic actuator (disabled when empty)")
	realtime     = flag.Bool("realtime", false, "pace replay frames by their timestamps")
	plotDir      = flag.String("plot-dir", "", "write PNG summary plots here after the run")
	sessionNotes = flag.String("notes", "", "notes recorded with the diagnostics session")
	showVersion  = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("waypath %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *listen == "" {
		log.Fatal("listen address is required")
	}

	store, err := settings.NewStore(*dbFile)
	if err != nil {
		log.Fatalf("failed to open settings database: %v", err)
	}
	defer store.Close()

	path := *tuningPath
	if path == "" {
		if _, statErr := os.Stat(config.DefaultConfigPath); statErr == nil {
			path = config.DefaultConfigPath
		}
	}
	tuning := config.EmptyTuningConfig()
	if path != "" {
		tuning, err = config.LoadTuningConfig(path)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	custom, err := store.CustomCatalogEntries()
	if err != nil {
		log.Fatalf("failed to load custom catalog entries: %v", err)
	}
	catalog := vision.DefaultCatalog().WithEntries(custom)

	estimatorCfg, err := tuning.BuildEstimatorConfig(catalog)
	if err != nil {
		log.Fatalf("invalid tuning config: %v", err)
	}
	pipeline := vision.NewPipeline(vision.NewConfigHolder(estimatorCfg), timeutil.RealClock{})

	displayUnits, err := store.GetString(settings.KeyDisplayUnits, tuning.GetDisplayUnits())
	if err != nil {
		log.Fatalf("failed to read display units: %v", err)
	}

	var actuator haptic.Actuator = haptic.NopActuator{}
	if *hapticPort != "" {
		actuator, err = haptic.Open(*hapticPort, haptic.DefaultPortOptions())
		if err != nil {
			log.Fatalf("failed to open haptic actuator: %v", err)
		}
	}
	defer actuator.Close()

	input, err := openReplay(*replayFile)
	if err != nil {
		log.Fatalf("failed to open replay input: %v", err)
	}
	defer input.Close()

	history := monitor.NewHistory(monitor.DefaultHistorySize)
	server := api.NewServer(pipeline, store, displayUnits)

	sessionID, err := store.StartSession(time.Now().UnixNano(), *sessionNotes)
	if err != nil {
		log.Fatalf("failed to start session: %v", err)
	}
	log.Printf("started session %s", sessionID)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := server.ServeMux()
		monitor.NewWebServer(history).Routes(mux)

		httpServer := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	// frame loop goroutine: decode, process, actuate, record
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		if err := runFrames(ctx, input, pipeline, actuator, server, history, store, sessionID, *realtime); err != nil {
			log.Printf("frame loop error: %v", err)
		}
		log.Print("frame loop terminated")
	}()

	wg.Wait()

	if err := store.EndSession(sessionID, time.Now().UnixNano()); err != nil {
		log.Printf("failed to end session: %v", err)
	}

	if *plotDir != "" {
		files, err := monitor.NewDepthPlotter(history, *plotDir).WritePlots()
		if err != nil {
			log.Printf("failed to write plots: %v", err)
		} else {
			for _, f := range files {
				log.Printf("wrote %s", f)
			}
		}
	}

	snap := pipeline.Stats().Snapshot()
	log.Printf("processed %d estimations across %d classes", snap.TotalEstimations, len(snap.PerClassCounts))
	log.Print("graceful shutdown complete")
}

func openReplay(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// runFrames drives the pipeline from a JSONL frame stream until EOF or
// cancellation. Frames are processed single-threaded: the pipeline's
// tracker and gate assume serialized calls.
func runFrames(ctx context.Context, input io.Reader, pipeline *vision.Pipeline, actuator haptic.Actuator,
	server *api.Server, history *monitor.History, store *settings.Store, sessionID string, realtime bool) error {

	scan := bufio.NewScanner(input)
	scan.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var prev vision.Frame
	havePrev := false

	for scan.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := scan.Bytes()
		if len(line) == 0 {
			continue
		}

		var frame vision.Frame
		if err := json.Unmarshal(line, &frame); err != nil {
			log.Printf("skipping malformed frame: %v", err)
			continue
		}
		for i := range frame.Detections {
			frame.Detections[i].Normalize(frame.ImageWidth, frame.ImageHeight)
		}

		if realtime && havePrev {
			if gap := vision.FrameInterval(prev, frame); gap > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(gap):
				}
			}
		}
		prev, havePrev = frame, true

		outcome := pipeline.ProcessFrame(frame.Detections)

		if err := actuator.Pulse(outcome.Fired); err != nil {
			log.Printf("haptic pulse failed: %v", err)
		}
		server.RecordOutcome(outcome)
		history.Record(outcome, time.Now())
		if err := store.RecordFrame(sessionID, time.Now().UnixNano(), outcome); err != nil {
			log.Printf("failed to record frame: %v", err)
		}
	}
	return scan.Err()
}
