package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if cfg.Storage.Backend != want.Storage.Backend || cfg.History.Limit != 20 || cfg.Update.UserAgent != "MindTask-App" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Update.Delay != 3*time.Second {
		t.Fatalf("delay = %v", cfg.Update.Delay)
	}
	if !filepath.IsAbs(cfg.DataDir) {
		t.Fatalf("data_dir not expanded: %q", cfg.DataDir)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
data_dir: ` + dir + `
storage:
  backend: diskv
update:
  delay: 500ms
reminder:
  workdays: ["monday", " tue ", "x"]
planner:
  evening_hour: 20
log:
  file: "-"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MINDTASK_HISTORY_LIMIT", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "diskv" || cfg.Planner.EveningHour != 20 || cfg.Planner.MorningHour != 9 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.History.Limit != 5 {
		t.Fatalf("env override ignored: limit = %d", cfg.History.Limit)
	}
	if cfg.Update.Delay != 500*time.Millisecond {
		t.Fatalf("delay = %v", cfg.Update.Delay)
	}
	if len(cfg.Reminder.Workdays) != 2 || cfg.Reminder.Workdays[0] != "Mon" || cfg.Reminder.Workdays[1] != "Tue" {
		t.Fatalf("workdays = %v", cfg.Reminder.Workdays)
	}
	if cfg.LogPath() != "" {
		t.Fatalf("LogPath = %q, want disabled", cfg.LogPath())
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	if (Config{Timezone: "Nowhere/Special"}).Location() != time.Local {
		t.Fatalf("bad zone should fall back to local")
	}
	if loc := (Config{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Fatalf("loc = %v", loc)
	}
}
