package config

import (
    "os"
    "path/filepath"
    "testing"
)

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
  path: features/tweets.csv
`)
    c, err := Load(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if c.Signals.BuyThreshold != 0.2 || c.Signals.SellThreshold != -0.2 {
        t.Fatalf("expected symmetric default thresholds, got %g/%g",
            c.Signals.BuyThreshold, c.Signals.SellThreshold)
    }
    if c.Signals.MinDailyVolume != 20 {
        t.Fatalf("expected default min_daily_volume 20, got %d", c.Signals.MinDailyVolume)
    }
    if c.Signals.ConfidenceMode != "share" {
        t.Fatalf("expected default confidence_mode share, got %s", c.Signals.ConfidenceMode)
    }
}

func TestLoadRejectsWeightsNotSummingToOne(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
  path: features/tweets.csv
signals:
  keyword_weight: 0.6
  embedding_weight: 0.6
`)
    if _, err := Load(path); err == nil {
        t.Fatalf("expected weight validation error")
    }
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
  path: features/tweets.csv
signals:
  buy_threshold: -0.1
  sell_threshold: 0.1
`)
    if _, err := Load(path); err == nil {
        t.Fatalf("expected threshold validation error")
    }
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
  path: features/tweets.csv
signals:
  market_timezone: Mars/Olympus
`)
    if _, err := Load(path); err == nil {
        t.Fatalf("expected timezone validation error")
    }
}

func TestLoadRequiresFileSourcePath(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
`)
    if _, err := Load(path); err == nil {
        t.Fatalf("expected missing path error")
    }
}

func TestLoadWithEnvOverrides(t *testing.T) {
    path := writeConfig(t, `
environment: test
source:
  type: file
  path: features/tweets.csv
`)
    t.Setenv("MARKET_TIMEZONE", "UTC")
    t.Setenv("OUTPUT_PATH", "out/signals.csv")
    c, err := LoadWithEnv(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if c.Signals.MarketTimezone != "UTC" {
        t.Fatalf("expected env timezone override, got %s", c.Signals.MarketTimezone)
    }
    if c.Signals.OutputPath != "out/signals.csv" {
        t.Fatalf("expected env output override, got %s", c.Signals.OutputPath)
    }
}
