// Command office-controller polls the office sensors and drives the
// lights, buzzer and blinds.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/office-controller/internal/config"
	"github.com/sweeney/office-controller/internal/logging"
	"github.com/sweeney/office-controller/internal/logic"
	"github.com/sweeney/office-controller/internal/status"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: search ./, ./config, /etc/office-controller)")
	printState := flag.Bool("print-state", false, "Run every rule once, print state and exit")

	flag.Parse()

	if err := run(*configPath, *printState); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, printState bool) error {
	loader := config.New(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.LogLevel, os.Stderr, cfg.LogConsole)
	if f := loader.File(); f != "" {
		log.Info().Str("file", f).Msg("config loaded")
	} else {
		log.Info().Msg("no config file found, using defaults")
	}

	rules, err := cfg.Rules()
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Error().Err(err).Msg("close hardware")
		}
	}()

	ctrl, err := logic.NewController(hw.Hardware, cfg.Pins, rules)
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	// Print state mode
	if printState {
		poll(ctrl, tracker, log, time.Now())
		fmt.Println(string(status.FormatJSON(tracker.Snapshot(time.Now()))))
		return nil
	}

	reload := make(chan config.Config, 1)
	if loader.File() != "" {
		loader.Watch(func(c config.Config, err error) {
			if err != nil {
				log.Error().Err(err).Msg("config reload rejected")
				return
			}
			// keep only the newest pending reload
			select {
			case <-reload:
			default:
			}
			reload <- c
		})
	}

	log.Info().
		RawJSON("status", status.FormatStatusEvent(tracker.Snapshot(time.Now()), "STARTUP")).
		Msg("started")

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, tracker, log, cfg, time.Now, ticker.C, reload, sigCh)
}

// runLoop polls on every tick. boot is the config the hardware was opened
// with; heartbeat interval comes from it.
func runLoop(ctrl *logic.Controller, tracker *status.Tracker, log zerolog.Logger, boot config.Config, now func() time.Time, tick <-chan time.Time, reload <-chan config.Config, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Info().
				Str("signal", signalName).
				RawJSON("status", status.FormatStatusEvent(tracker.Snapshot(now()), "SHUTDOWN")).
				Msg("shutting down")
			return nil

		case c := <-reload:
			applyReload(ctrl, tracker, log, boot, c, now())

		case <-tick:
			t := now()
			poll(ctrl, tracker, log, t)

			if tracker.CheckHeartbeat(t, boot.Heartbeat) {
				log.Info().
					RawJSON("status", status.FormatStatusEvent(tracker.Snapshot(t), "HEARTBEAT")).
					Msg("heartbeat")
			}
		}
	}
}

// rule is one controller operation run on every tick.
type rule struct {
	name string
	fn   func() error
}

// poll runs every rule once. A failing rule is logged and does not stop
// the others.
func poll(ctrl *logic.Controller, tracker *status.Tracker, log zerolog.Logger, t time.Time) {
	rules := []rule{
		{"blinds", ctrl.ManageBlindsBasedOnTime},
		{"light", ctrl.ManageLightLevel},
		{"air_quality", ctrl.MonitorAirQuality},
	}
	for _, r := range rules {
		if err := r.fn(); err != nil {
			tracker.RecordError()
			log.Error().Err(err).Str("rule", r.name).Msg("rule failed")
		}
	}

	for _, e := range tracker.Update(ctrl.State(), t) {
		ev := log.Info()
		if e.Type == logic.EventAlarmOn {
			ev = log.Warn()
		}
		ev.Str("event", string(e.Type)).
			Bool("blinds_open", e.State.BlindsOpen).
			Bool("light_on", e.State.LightOn).
			Bool("buzzer_on", e.State.BuzzerOn).
			Msg("transition")
	}
}

// applyReload hot-swaps the rule thresholds. Every other key is bound at
// startup and needs a restart.
func applyReload(ctrl *logic.Controller, tracker *status.Tracker, log zerolog.Logger, boot, c config.Config, t time.Time) {
	rules, err := c.Rules()
	if err == nil {
		err = ctrl.SetRules(rules)
	}
	if err != nil {
		log.Error().Err(err).Msg("config reload rejected")
		return
	}

	if keys := boot.RestartKeys(c); len(keys) > 0 {
		log.Warn().Strs("keys", keys).Msg("hardware settings changed; restart to apply")
	}
	disp := tracker.Snapshot(t).Config
	disp.LuxThreshold = rules.LuxThreshold
	disp.BlindsWindow = blindsWindow(rules)
	tracker.SetConfig(disp)

	log.Info().
		Float64("lux_threshold", rules.LuxThreshold).
		Str("blinds_window", disp.BlindsWindow).
		Int("blinds_open_angle", rules.BlindsOpenAngle).
		Int("blinds_closed_angle", rules.BlindsClosedAngle).
		Msg("rules reloaded")
}

func statusConfig(cfg config.Config) status.Config {
	sc := status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Chip:        cfg.Chip,
		ClockSource: cfg.ClockSource,
		Pins:        cfg.Pins,
		ServoPin:    cfg.ServoPin,
	}
	if rules, err := cfg.Rules(); err == nil {
		sc.LuxThreshold = rules.LuxThreshold
		sc.BlindsWindow = blindsWindow(rules)
	}
	return sc
}

// blindsWindow formats the open window as "HH:MM-HH:MM".
func blindsWindow(r logic.Rules) string {
	return clockString(r.BlindsOpenFrom) + "-" + clockString(r.BlindsOpenUntil)
}

func clockString(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
