// Package config loads the system configuration from a TOML file and
// supplies the defaults the original deployment shipped with.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arsenicprojects/police-plate-gate/internal/plate"
	"github.com/arsenicprojects/police-plate-gate/internal/recognize"
)

// Config is the root of the TOML file.
type Config struct {
	Camera      Camera      `toml:"camera"`
	Detection   Detection   `toml:"detection"`
	Recognition Recognition `toml:"recognition"`
	Gate        Gate        `toml:"gate"`
	Server      Server      `toml:"server"`
}

// Camera configures the frame source.
type Camera struct {
	Index      int `toml:"index"`
	FrameWidth int `toml:"frame_width"`
}

// Detection carries the thresholds of both contour passes. The scene
// pass finds plate-shaped character groups in the full frame; the plate
// pass isolates characters inside an extracted crop.
type Detection struct {
	Scene plate.FilterConfig `toml:"scene"`
	Plate plate.FilterConfig `toml:"plate"`
	Match plate.MatchConfig  `toml:"match"`

	MinGroupSize  int     `toml:"min_group_size"`
	WidthPadding  float64 `toml:"width_padding"`
	HeightPadding float64 `toml:"height_padding"`
}

// Recognition configures the glyph model and text post-processing.
type Recognition struct {
	ModelPath      string            `toml:"model_path"`
	KNearest       int               `toml:"k_nearest"`
	ExpectedLength int               `toml:"expected_length"`
	KnownPrefixes  map[string]string `toml:"known_prefixes"`
	RepairPrefix   string            `toml:"repair_prefix"`
	Patterns       []string          `toml:"patterns"`
	SnapshotDir    string            `toml:"snapshot_dir"`
}

// Gate configures access control and the presence sensor.
type Gate struct {
	HomeownerPlates     []string `toml:"homeowner_plates"`
	GuestPlates         []string `toml:"guest_plates"`
	VerificationCount   int      `toml:"verification_count"`
	ScanCooldownSeconds float64  `toml:"scan_cooldown_seconds"`
	UltrasonicThreshold float64  `toml:"ultrasonic_threshold"`
	TrigPin             int      `toml:"trig_pin"`
	EchoPin             int      `toml:"echo_pin"`
	EventLimit          int      `toml:"event_limit"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Camera: Camera{
			Index:      0,
			FrameWidth: 620,
		},
		Detection: Detection{
			Scene:         plate.SceneFilterConfig(),
			Plate:         plate.PlateFilterConfig(),
			Match:         plate.DefaultMatchConfig(),
			MinGroupSize:  plate.MinGroupSize,
			WidthPadding:  plate.DefaultWidthPadding,
			HeightPadding: plate.DefaultHeightPadding,
		},
		Recognition: Recognition{
			ModelPath:      "data/training_data/model.json",
			KNearest:       1,
			ExpectedLength: recognize.ExpectedPlateLength,
			KnownPrefixes: map[string]string{
				"3944FG": "R",
				"5477DP": "R",
			},
			RepairPrefix: "R",
			SnapshotDir:  "data/recognized_plates",
		},
		Gate: Gate{
			HomeownerPlates:     []string{"R3944FG", "R5477DP"},
			VerificationCount:   3,
			ScanCooldownSeconds: 2.0,
			UltrasonicThreshold: 15,
			TrigPin:             18,
			EchoPin:             24,
			EventLimit:          100,
		},
		Server: Server{
			Addr: ":8080",
		},
	}
}

// Load reads a TOML config file over the defaults. A missing file yields
// the defaults without error; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ScanCooldown returns the cooldown as a duration.
func (g Gate) ScanCooldown() time.Duration {
	return time.Duration(g.ScanCooldownSeconds * float64(time.Second))
}

// RecognizerConfig assembles the pipeline configuration, compiling the
// validation patterns. Unset patterns fall back to the defaults.
func (c Config) RecognizerConfig() (recognize.Config, error) {
	rc := recognize.Config{
		SceneFilter:    c.Detection.Scene,
		PlateFilter:    c.Detection.Plate,
		Match:          c.Detection.Match,
		MinGroupSize:   c.Detection.MinGroupSize,
		WidthPadding:   c.Detection.WidthPadding,
		HeightPadding:  c.Detection.HeightPadding,
		ExpectedLength: c.Recognition.ExpectedLength,
		KnownPrefixes:  c.Recognition.KnownPrefixes,
		RepairPrefix:   c.Recognition.RepairPrefix,
	}
	if len(c.Recognition.Patterns) == 0 {
		rc.Patterns = recognize.DefaultValidationPatterns()
		return rc, nil
	}
	for _, p := range c.Recognition.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return rc, fmt.Errorf("compile plate pattern %q: %w", p, err)
		}
		rc.Patterns = append(rc.Patterns, re)
	}
	return rc, nil
}
