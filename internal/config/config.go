package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type StorageConfig struct {
	Backend    string `mapstructure:"backend"`    // sqlite | diskv | memory
	Passphrase string `mapstructure:"passphrase"` // seals stored snapshots when set
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type UpdateConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	UserAgent string        `mapstructure:"user_agent"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "09:00"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Tue","Wed","Thu","Fri"]
	Holidays []string `mapstructure:"holidays"` // ["2025-01-01"]
}

type PlannerConfig struct {
	MorningHour   int `mapstructure:"morning_hour"`
	AfternoonHour int `mapstructure:"afternoon_hour"`
	EveningHour   int `mapstructure:"evening_hour"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // relative to data_dir; "" or "-" disables
}

type Config struct {
	Theme    string         `mapstructure:"theme"`
	Timezone string         `mapstructure:"timezone"` // e.g. "Asia/Shanghai" (optional)
	DataDir  string         `mapstructure:"data_dir"`
	Storage  StorageConfig  `mapstructure:"storage"`
	History  HistoryConfig  `mapstructure:"history"`
	Update   UpdateConfig   `mapstructure:"update"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Log      LogConfig      `mapstructure:"log"`
}

const DefaultReleaseURL = "https://api.github.com/repos/mindtask/mindtask/releases/latest"

func Default() Config {
	return Config{
		Theme:   "default",
		DataDir: "~/.local/share/mindtask",
		Storage: StorageConfig{Backend: "sqlite"},
		History: HistoryConfig{Limit: 20},
		Update: UpdateConfig{
			Enabled:   true,
			URL:       DefaultReleaseURL,
			UserAgent: "MindTask-App",
			Delay:     3 * time.Second,
			Timeout:   10 * time.Second,
		},
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "09:00",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			Holidays: []string{},
		},
		Planner: PlannerConfig{MorningHour: 9, AfternoonHour: 14, EveningHour: 19},
		Log:     LogConfig{Level: "info", File: "mindtask.log"},
	}
}

// DefaultPath is ~/.config/mindtask/config.yaml.
func DefaultPath() (string, error) {
	return homedir.Expand(filepath.Join("~", ".config", "mindtask", "config.yaml"))
}

// Load reads path (DefaultPath when empty) over the defaults, then applies
// MINDTASK_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("mindtask")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.passphrase", cfg.Storage.Passphrase)
	v.SetDefault("history.limit", cfg.History.Limit)
	v.SetDefault("update.enabled", cfg.Update.Enabled)
	v.SetDefault("update.url", cfg.Update.URL)
	v.SetDefault("update.user_agent", cfg.Update.UserAgent)
	v.SetDefault("update.delay", cfg.Update.Delay)
	v.SetDefault("update.timeout", cfg.Update.Timeout)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("planner.morning_hour", cfg.Planner.MorningHour)
	v.SetDefault("planner.afternoon_hour", cfg.Planner.AfternoonHour)
	v.SetDefault("planner.evening_hour", cfg.Planner.EveningHour)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)

	_ = v.ReadInConfig() // ok if missing
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("data_dir: %w", err)
	}
	cfg.DataDir = dir

	// normalize workdays
	days := cfg.Reminder.Workdays[:0]
	for _, d := range cfg.Reminder.Workdays {
		if d = strings.TrimSpace(d); len(d) >= 3 {
			days = append(days, strings.ToUpper(d[:1])+strings.ToLower(d[1:3]))
		}
	}
	cfg.Reminder.Workdays = days
	return cfg, nil
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// LogPath is the log file location, or "" when file logging is off.
func (c Config) LogPath() string {
	switch f := strings.TrimSpace(c.Log.File); {
	case f == "" || f == "-":
		return ""
	case filepath.IsAbs(f):
		return f
	default:
		return filepath.Join(c.DataDir, f)
	}
}
