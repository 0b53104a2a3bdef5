package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/example/parking-scheduler/internal/infrastructure/notify"
	"github.com/example/parking-scheduler/internal/infrastructure/parkalot"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable that points at an optional YAML
// config file.
const FileEnv = "PARKSCHED_CONFIG"

type Config struct {
	Username string
	Password string
	BaseURL  string

	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string

	ReserveAt   parking.TimeOfDay
	Location    *time.Location
	GateEnabled bool

	Headless      bool
	NoSandbox     bool
	ChromeBin     string
	ScreenshotDir string

	LoginSettle    time.Duration
	CalendarSettle time.Duration
	ReserveSettle  time.Duration

	DatabaseURL string // optional; enables run history and the run lock
	LogFile     string
}

// FromEnv reads configuration from the environment only.
func FromEnv() (Config, error) {
	return Load("")
}

// Load reads the YAML file at path, if any, and overlays the environment.
// File keys are the lower-cased variable names (reserve_at, parkalot_user).
func Load(path string) (Config, error) {
	src := source{getenv: os.Getenv}
	if path != "" {
		file, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		src.file = file
	}
	return src.config()
}

func (s source) config() (Config, error) {
	cfg := Config{
		Username:      s.get("PARKALOT_USER", ""),
		Password:      s.get("PARKALOT_PASS", ""),
		BaseURL:       s.get("PARKALOT_BASE_URL", parkalot.DefaultBaseURL),
		AccountSID:    s.get("TWILIO_SID", ""),
		AuthToken:     s.get("TWILIO_AUTH_TOKEN", ""),
		FromNumber:    s.get("TWILIO_FROM_NUMBER", ""),
		ToNumber:      s.get("TWILIO_TO_NUMBER", ""),
		ChromeBin:     s.get("CHROME_BIN", ""),
		ScreenshotDir: s.get("SCREENSHOT_DIR", "."),
		DatabaseURL:   s.get("DATABASE_URL", ""),
		LogFile:       s.get("LOG_FILE", ""),
	}

	var err error
	if cfg.ReserveAt, err = parking.ParseTimeOfDay(s.get("RESERVE_AT", "11:00:01")); err != nil {
		return cfg, invalid("RESERVE_AT", err)
	}
	if cfg.Location, err = time.LoadLocation(s.get("RESERVE_TZ", "UTC")); err != nil {
		return cfg, invalid("RESERVE_TZ", err)
	}
	if cfg.GateEnabled, err = s.bool("GATE_ENABLED", true); err != nil {
		return cfg, err
	}
	if cfg.Headless, err = s.bool("HEADLESS", true); err != nil {
		return cfg, err
	}
	if cfg.NoSandbox, err = s.bool("CHROME_NO_SANDBOX", false); err != nil {
		return cfg, err
	}

	tm := parkalot.DefaultTimings()
	if cfg.LoginSettle, err = s.duration("LOGIN_SETTLE", tm.LoginSettle); err != nil {
		return cfg, err
	}
	if cfg.CalendarSettle, err = s.duration("CALENDAR_SETTLE", tm.CalendarSettle); err != nil {
		return cfg, err
	}
	if cfg.ReserveSettle, err = s.duration("RESERVE_SETTLE", tm.ReserveSettle); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Credentials returns the site login, failing with parking.ErrConfiguration
// when either half is missing.
func (c Config) Credentials() (parking.Credentials, error) {
	creds := parking.Credentials{Identity: c.Username, Secret: c.Password}
	if err := creds.Validate(); err != nil {
		return parking.Credentials{}, fmt.Errorf("PARKALOT_USER and PARKALOT_PASS are required: %w", err)
	}
	return creds, nil
}

func (c Config) NotifierSettings() notify.Settings {
	return notify.Settings{
		AccountSID: c.AccountSID,
		AuthToken:  c.AuthToken,
		From:       c.FromNumber,
		To:         c.ToNumber,
	}
}

// Timings returns the site defaults with the configured settle pauses.
func (c Config) Timings() parkalot.Timings {
	tm := parkalot.DefaultTimings()
	tm.LoginSettle = c.LoginSettle
	tm.CalendarSettle = c.CalendarSettle
	tm.ReserveSettle = c.ReserveSettle
	return tm
}

type source struct {
	getenv func(string) string
	file   map[string]string
}

func (s source) get(k, d string) string {
	if v := strings.TrimSpace(s.getenv(k)); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.file[strings.ToLower(k)]); v != "" {
		return v
	}
	return d
}

func (s source) bool(k string, d bool) (bool, error) {
	v := s.get(k, "")
	if v == "" {
		return d, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d, invalid(k, err)
	}
	return b, nil
}

// duration accepts Go durations ("2s", "1500ms") or plain seconds ("5").
func (s source) duration(k string, d time.Duration) (time.Duration, error) {
	v := s.get(k, "")
	if v == "" {
		return d, nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs < 0 {
			return d, invalid(k, fmt.Errorf("negative duration %q", v))
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d, invalid(k, err)
	}
	if dur < 0 {
		return d, invalid(k, fmt.Errorf("negative duration %q", v))
	}
	return dur, nil
}

func readFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config file: %w", parking.ErrConfiguration, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse config file %s: %w", parking.ErrConfiguration, path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func invalid(k string, err error) error {
	return fmt.Errorf("%w: invalid %s: %w", parking.ErrConfiguration, k, err)
}
