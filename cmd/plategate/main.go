// Command plategate runs the automatic gate: it reads frames from a
// camera, video or still image, recognizes license plates and drives the
// access decision, with an HTTP surface for operators.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/arsenicprojects/police-plate-gate/internal/api"
	"github.com/arsenicprojects/police-plate-gate/internal/capture"
	"github.com/arsenicprojects/police-plate-gate/internal/classify"
	"github.com/arsenicprojects/police-plate-gate/internal/config"
	"github.com/arsenicprojects/police-plate-gate/internal/gate"
	"github.com/arsenicprojects/police-plate-gate/internal/recognize"
	"github.com/arsenicprojects/police-plate-gate/internal/sensor"
	"github.com/arsenicprojects/police-plate-gate/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting plategate v%s", version.Version)

	var (
		configPath   = flag.String("config", "data/config.toml", "config file path")
		videoPath    = flag.String("video", "", "path to a video file")
		imagePath    = flag.String("image", "", "path to a still image")
		cameraIndex  = flag.Int("camera", -1, "camera index (overrides config)")
		noUltrasonic = flag.Bool("no-ultrasonic", false, "process every frame instead of waiting for the presence sensor")
		withOCR      = flag.Bool("ocr", false, "fall back to Tesseract when glyph classification reads too few characters")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	model, err := classify.LoadKNN(cfg.Recognition.ModelPath, cfg.Recognition.KNearest)
	if err != nil {
		log.Fatalf("Load glyph model %s: %v (run knntrain first)", cfg.Recognition.ModelPath, err)
	}

	rc, err := cfg.RecognizerConfig()
	if err != nil {
		log.Fatalf("Recognizer config: %v", err)
	}
	recognizer := recognize.New(rc, model)

	if *withOCR {
		engine, err := classify.NewOCREngine()
		if err != nil {
			log.Fatalf("Start OCR engine: %v", err)
		}
		defer engine.Close()
		recognizer.SetOCRFallback(engine)
	}

	source, err := openSource(cfg, *videoPath, *imagePath, *cameraIndex)
	if err != nil {
		log.Fatalf("Open frame source: %v", err)
	}
	defer source.Close()

	controller := gate.NewController(gate.Options{
		HomeownerPlates:   cfg.Gate.HomeownerPlates,
		GuestPlates:       cfg.Gate.GuestPlates,
		VerificationCount: cfg.Gate.VerificationCount,
		ScanCooldown:      cfg.Gate.ScanCooldown(),
		EventLimit:        cfg.Gate.EventLimit,
	}, nil)

	// The real trigger/echo driver is hardware specific. Without it the
	// monitor runs on a stub pinned at the threshold, so frames still get
	// processed; deployments with the sensor swap in their Reader.
	var monitor *sensor.Monitor
	if !*noUltrasonic {
		monitor = sensor.NewMonitor(sensor.NewStubReader(cfg.Gate.UltrasonicThreshold), 0)
		monitor.Start()
		defer monitor.Stop()
		log.Printf("Presence sensor armed, threshold %.0fcm", cfg.Gate.UltrasonicThreshold)
	}

	server := api.NewServer(controller)
	go func() {
		if err := server.Router().Run(cfg.Server.Addr); err != nil {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	run(cfg, source, recognizer, controller, monitor, server, stop)
	log.Print("Shutdown complete")
}

func openSource(cfg config.Config, video, image string, camera int) (*capture.Source, error) {
	switch {
	case video != "":
		return capture.OpenVideo(video)
	case image != "":
		return capture.OpenImage(image)
	case camera >= 0:
		return capture.OpenCamera(camera)
	default:
		return capture.OpenCamera(cfg.Camera.Index)
	}
}

func run(cfg config.Config, source *capture.Source, recognizer *recognize.Recognizer,
	controller *gate.Controller, monitor *sensor.Monitor, server *api.Server, stop <-chan os.Signal) {

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case sig := <-stop:
			log.Printf("Received %v", sig)
			return
		default:
		}

		if !source.Read(&frame) {
			log.Print("Frame source exhausted")
			return
		}
		frame = capture.ResizeToWidth(frame, cfg.Camera.FrameWidth)

		if monitor != nil && !monitor.ObjectWithin(cfg.Gate.UltrasonicThreshold) {
			continue
		}
		if !controller.ShouldScan(time.Now()) {
			continue
		}

		result, err := recognizer.Recognize(frame)
		if err != nil {
			log.Printf("Recognize frame: %v", err)
			continue
		}
		if result == nil {
			continue
		}

		server.SetLastResult(result)
		log.Printf("Plate %q (raw %q, confidence %.2f, valid %v)",
			result.CleanedText, result.RawText, result.Confidence, result.Valid)

		if !controller.RecordSighting(result.CleanedText) {
			continue
		}

		decision := controller.CheckAccess(result.CleanedText)
		log.Print(decision.Message)

		if cfg.Recognition.SnapshotDir != "" {
			if path, err := gate.SaveSnapshot(cfg.Recognition.SnapshotDir, result.CleanedText, frame); err != nil {
				log.Printf("Save snapshot: %v", err)
			} else {
				log.Printf("Snapshot saved to %s", path)
			}
		}

		if decision.Granted {
			if err := controller.OpenGate(); err != nil {
				log.Printf("Open gate: %v", err)
			}
		}
	}
}
