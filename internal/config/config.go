// Package config loads controller settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/sweeney/office-controller/internal/gpio"
	"github.com/sweeney/office-controller/internal/logic"
	"github.com/sweeney/office-controller/internal/servo"
)

// EnvPrefix is prepended to environment overrides, e.g.
// OFFICE_RULES_LUX_THRESHOLD.
const EnvPrefix = "OFFICE"

// Name is the config file base name searched for when no path is given.
const Name = "office-controller"

// Clock sources
const (
	ClockSystem = "system"
	ClockDS3231 = "ds3231"
)

// Config is the full controller configuration.
type Config struct {
	LogLevel   string
	LogConsole bool

	Poll      time.Duration
	Heartbeat time.Duration

	Chip     string
	Pins     logic.Pins
	ServoPin int

	I2CBus       string
	LightAddr    uint16
	ClockSource  string
	ClockAddr    uint16
	ClockTZ      string
	LuxThreshold float64
	BlindsFrom   string // HH:MM
	BlindsUntil  string // HH:MM
	OpenAngle    int
	ClosedAngle  int
}

// Rules returns the controller thresholds.
func (c Config) Rules() (logic.Rules, error) {
	from, err := parseClock(c.BlindsFrom)
	if err != nil {
		return logic.Rules{}, fmt.Errorf("rules.blinds_open_from: %w", err)
	}
	until, err := parseClock(c.BlindsUntil)
	if err != nil {
		return logic.Rules{}, fmt.Errorf("rules.blinds_open_until: %w", err)
	}
	r := logic.Rules{
		LuxThreshold:      c.LuxThreshold,
		BlindsOpenFrom:    from,
		BlindsOpenUntil:   until,
		BlindsOpenAngle:   c.OpenAngle,
		BlindsClosedAngle: c.ClosedAngle,
	}
	if err := r.Validate(); err != nil {
		return logic.Rules{}, err
	}
	return r, nil
}

// Location returns the time zone used to interpret the RTC.
func (c Config) Location() (*time.Location, error) {
	if c.ClockTZ == "" || c.ClockTZ == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ClockTZ)
}

// parseClock parses "HH:MM" as an offset from midnight; "24:00" is allowed.
func parseClock(s string) (time.Duration, error) {
	if s == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Loader reads Config through viper.
type Loader struct {
	v *viper.Viper
}

// New returns a Loader for path. An empty path searches the working
// directory, ./config and /etc/office-controller.
func New(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/" + Name)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	pins := logic.DefaultPins()
	rules := logic.DefaultRules()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("poll", time.Second)
	v.SetDefault("heartbeat", 15*time.Minute)
	v.SetDefault("gpio.chip", gpio.DefaultChip)
	v.SetDefault("pins.infrared", pins.Infrared[:])
	v.SetDefault("pins.led", pins.LED)
	v.SetDefault("pins.buzzer", pins.Buzzer)
	v.SetDefault("pins.smoke", pins.Smoke)
	v.SetDefault("servo.pin", servo.DefaultPin)
	v.SetDefault("i2c.bus", "")
	v.SetDefault("light.address", 0x10)
	v.SetDefault("clock.source", ClockSystem)
	v.SetDefault("clock.address", 0x68)
	v.SetDefault("clock.timezone", "Local")
	v.SetDefault("rules.lux_threshold", rules.LuxThreshold)
	v.SetDefault("rules.blinds_open_from", "08:00")
	v.SetDefault("rules.blinds_open_until", "20:00")
	v.SetDefault("rules.blinds_open_angle", rules.BlindsOpenAngle)
	v.SetDefault("rules.blinds_closed_angle", rules.BlindsClosedAngle)
}

// Load reads the config file (if any) and environment.
// A missing file is not an error when searching default paths.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

// File returns the config file in use, or "" if none was found.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) decode() (Config, error) {
	v := l.v

	ir, err := intSlice(v, "pins.infrared")
	if err != nil {
		return Config{}, err
	}
	if len(ir) != 4 {
		return Config{}, fmt.Errorf("pins.infrared: need 4 pins, got %d", len(ir))
	}

	c := Config{
		LogLevel:     v.GetString("log.level"),
		LogConsole:   v.GetBool("log.console"),
		Poll:         v.GetDuration("poll"),
		Heartbeat:    v.GetDuration("heartbeat"),
		Chip:         v.GetString("gpio.chip"),
		ServoPin:     v.GetInt("servo.pin"),
		I2CBus:       v.GetString("i2c.bus"),
		LightAddr:    uint16(v.GetUint("light.address")),
		ClockSource:  strings.ToLower(v.GetString("clock.source")),
		ClockAddr:    uint16(v.GetUint("clock.address")),
		ClockTZ:      v.GetString("clock.timezone"),
		LuxThreshold: v.GetFloat64("rules.lux_threshold"),
		BlindsFrom:   v.GetString("rules.blinds_open_from"),
		BlindsUntil:  v.GetString("rules.blinds_open_until"),
		OpenAngle:    v.GetInt("rules.blinds_open_angle"),
		ClosedAngle:  v.GetInt("rules.blinds_closed_angle"),
	}
	c.Pins = logic.Pins{
		Infrared: [4]int{ir[0], ir[1], ir[2], ir[3]},
		LED:      v.GetInt("pins.led"),
		Buzzer:   v.GetInt("pins.buzzer"),
		Smoke:    v.GetInt("pins.smoke"),
	}

	if c.Poll <= 0 {
		return Config{}, fmt.Errorf("poll must be positive, got %v", c.Poll)
	}
	if c.ClockSource != ClockSystem && c.ClockSource != ClockDS3231 {
		return Config{}, fmt.Errorf("clock.source: unknown source %q", c.ClockSource)
	}
	if err := c.Pins.Validate(); err != nil {
		return Config{}, err
	}
	if err := checkServoPin(c.ServoPin, c.Pins); err != nil {
		return Config{}, err
	}
	if _, err := c.Rules(); err != nil {
		return Config{}, err
	}
	if _, err := c.Location(); err != nil {
		return Config{}, fmt.Errorf("clock.timezone: %w", err)
	}
	return c, nil
}

// intSlice reads a list of ints. Environment values arrive as one string
// and are split on spaces or commas.
func intSlice(v *viper.Viper, key string) ([]int, error) {
	s, ok := v.Get(key).(string)
	if !ok {
		return v.GetIntSlice(key), nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid pin %q", key, f)
		}
		out = append(out, n)
	}
	return out, nil
}

// checkServoPin rejects a servo line that is negative or already claimed
// by a digital pin.
func checkServoPin(pin int, pins logic.Pins) error {
	if pin < 0 {
		return fmt.Errorf("servo.pin: %w: %d is negative", logic.ErrInvalidPin, pin)
	}
	for _, p := range append(pins.Inputs(), pins.Outputs()...) {
		if p == pin {
			return fmt.Errorf("servo.pin: %w: %d already assigned to a digital pin", logic.ErrInvalidPin, pin)
		}
	}
	return nil
}

// RestartKeys lists the keys that differ between c and next but are only
// applied when the hardware opens. Rule thresholds are not included.
func (c Config) RestartKeys(next Config) []string {
	var keys []string
	diff := func(key string, changed bool) {
		if changed {
			keys = append(keys, key)
		}
	}
	diff("log.level", c.LogLevel != next.LogLevel)
	diff("log.console", c.LogConsole != next.LogConsole)
	diff("poll", c.Poll != next.Poll)
	diff("heartbeat", c.Heartbeat != next.Heartbeat)
	diff("gpio.chip", c.Chip != next.Chip)
	diff("pins", c.Pins != next.Pins)
	diff("servo.pin", c.ServoPin != next.ServoPin)
	diff("i2c.bus", c.I2CBus != next.I2CBus)
	diff("light.address", c.LightAddr != next.LightAddr)
	diff("clock.source", c.ClockSource != next.ClockSource)
	diff("clock.address", c.ClockAddr != next.ClockAddr)
	diff("clock.timezone", c.ClockTZ != next.ClockTZ)
	return keys
}

// Watch calls fn with the reloaded config each time the file changes.
// fn runs on viper's watcher goroutine.
func (l *Loader) Watch(fn func(Config, error)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		fn(l.decode())
	})
	l.v.WatchConfig()
}
