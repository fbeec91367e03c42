/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the calverify commands. Configuration loading through viper,
logging setup, month-set registry construction and signal-aware contexts.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/kleascm/calverify/pkg/logging"
	"github.com/kleascm/calverify/pkg/verifier"
	"github.com/kleascm/calverify/pkg/web"
	"github.com/kleascm/calverify/pkg/widget"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Version is set by main
var Version = "dev"

// DeviceConfig selects the Android device and app under test
type DeviceConfig struct {
	Serial   string `mapstructure:"serial"`
	Emulator bool   `mapstructure:"emulator"`
	ADB      string `mapstructure:"adb"`
	Package  string `mapstructure:"package"`
	APK      string `mapstructure:"apk"`
}

// CaseConfig is a verification case declared in the config file
type CaseConfig struct {
	Name     string `mapstructure:"name"`
	Kind     string `mapstructure:"kind"`
	Module   int    `mapstructure:"module"`
	Intro    string `mapstructure:"intro"`
	Calendar string `mapstructure:"calendar"`
}

// Config is the full calverify configuration
type Config struct {
	Target    string        `mapstructure:"target"`
	Device    DeviceConfig  `mapstructure:"device"`
	Web       web.Target    `mapstructure:"web"`
	Offset    int           `mapstructure:"offset"`
	YearShift int           `mapstructure:"year_shift"`
	Wait      time.Duration `mapstructure:"wait"`
	Calendars struct {
		File string `mapstructure:"file"`
	} `mapstructure:"calendars"`
	Report struct {
		Dir       string `mapstructure:"dir"`
		Artifacts string `mapstructure:"artifacts"`
		History   string `mapstructure:"history"`
		Title     string `mapstructure:"title"`
	} `mapstructure:"report"`
	Nav      widget.NavConfig `mapstructure:"nav"`
	Controls widget.Controls  `mapstructure:"controls"`
	Cases    []CaseConfig     `mapstructure:"cases"`
}

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CALVERIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// ReadConfig decodes the loaded settings over the built-in defaults
func ReadConfig() (*Config, error) {
	cfg := &Config{
		Target:    "device",
		Device:    DeviceConfig{ADB: "adb"},
		Web:       web.DefaultTarget(""),
		Offset:    -10,
		YearShift: -1,
		Wait:      5 * time.Second,
		Nav:       widget.DefaultNavConfig(),
		Controls:  widget.DefaultControls(),
	}
	cfg.Report.Dir = "./reports"
	cfg.Report.Artifacts = "./reports/artifacts"
	cfg.Report.History = "./reports/history"
	cfg.Report.Title = "Date Widget Verification"
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	switch cfg.Target {
	case "device", "web":
	default:
		return nil, fmt.Errorf("unknown target %q (device, web)", cfg.Target)
	}
	return cfg, nil
}

// SetupLogging configures the logging system and returns the run logger
func SetupLogging() (*logging.Logger, error) {
	logLevel := viper.GetString("log_level")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	config := logging.DefaultLoggerConfig()
	config.Level = logging.LogLevel(level.String())
	if level == logrus.WarnLevel {
		config.Level = logging.LogLevelWarning
	}
	if f := viper.GetString("log_format"); f != "" {
		config.Format = logging.LogFormat(f)
	}
	config.OutputDir = viper.GetString("log_dir")
	if n := viper.GetInt("log_max_files"); n > 0 {
		config.MaxFiles = n
	}
	if n := viper.GetInt64("log_max_size"); n > 0 {
		config.MaxSize = n
	}
	config.Compress = viper.GetBool("log_compress")
	if config.OutputDir != "" {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}
	return logging.NewLogger(config)
}

// LoadRegistry returns the built-in month sets plus any from the configured file
func LoadRegistry(cfg *Config) (*calendar.Registry, error) {
	reg := calendar.NewRegistry()
	if cfg.Calendars.File != "" {
		if err := reg.LoadFile(cfg.Calendars.File); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			fmt.Println("\n[!] Interrupt received, stopping verification...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, cancel
}

// BuildCases turns configured cases into verifier cases. With no configured cases the
// built-in forms are used. only restricts the result to the named cases.
func BuildCases(cfg *Config, reg *calendar.Registry, only []string) ([]verifier.Case, error) {
	var cases []verifier.Case
	if len(cfg.Cases) == 0 {
		cases = verifier.DefaultCases(cfg.Offset, cfg.YearShift)
	}
	for _, cc := range cfg.Cases {
		c := verifier.Case{
			Name:      cc.Name,
			Kind:      verifier.Kind(cc.Kind),
			Module:    cc.Module,
			Intro:     cc.Intro,
			Offset:    cfg.Offset,
			YearShift: cfg.YearShift,
		}
		switch c.Kind {
		case verifier.KindUniversal:
			months, ok := reg.Get(cc.Calendar)
			if !ok {
				return nil, fmt.Errorf("case %s: unknown calendar %q (known: %s)", cc.Name, cc.Calendar, strings.Join(reg.Names(), ", "))
			}
			c.Months = months
		case verifier.KindStandard:
		default:
			return nil, fmt.Errorf("case %s: unknown kind %q", cc.Name, cc.Kind)
		}
		cases = append(cases, c)
	}
	if len(only) == 0 {
		return cases, nil
	}

	var out []verifier.Case
	for _, name := range only {
		found := false
		for _, c := range cases {
			if c.Name == name {
				out = append(out, c)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no case named %q", name)
		}
	}
	return out, nil
}
