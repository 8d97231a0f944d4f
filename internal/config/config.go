// Package config provides configuration management for the signal bot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"nifty-condor-bot/internal/strategy"
)

const (
	defaultTimezone   = "Asia/Kolkata"
	defaultExitCutoff = "15:15"
	defaultBaseURL    = "https://www.nseindia.com"
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Market      MarketConfig      `yaml:"market"`
	Strategy    StrategyConfig    `yaml:"strategy"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Storage     StorageConfig     `yaml:"storage"`
	Recorder    RecorderConfig    `yaml:"recorder"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
}

// EnvironmentConfig defines runtime environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// MarketConfig defines the snapshot provider settings.
type MarketConfig struct {
	Symbol         string `yaml:"symbol"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RequestsPerMin int    `yaml:"requests_per_min"`
}

// StrategyConfig defines the condor signal engine parameters. Gates where an
// explicit zero is meaningful (a zero floor disables the check) are pointers
// so that "unset" and "zero" stay distinguishable through defaulting.
type StrategyConfig struct {
	OTMOffset         int           `yaml:"otm_offset"`
	SpreadWidth       float64       `yaml:"spread_width"`
	MinNetPremium     float64       `yaml:"min_net_premium"`
	MinWingPremium    *float64      `yaml:"min_wing_premium"`
	MaxVIX            float64       `yaml:"max_vix"`
	MinVIX            *float64      `yaml:"min_vix"`
	PCRMin            float64       `yaml:"pcr_min"` // 0 disables the PCR gate
	PCRMax            float64       `yaml:"pcr_max"`
	TargetDecay       float64       `yaml:"target_decay"`
	StopMultiple      float64       `yaml:"stop_multiple"`
	MinScoreThreshold *int          `yaml:"min_score_threshold"`
	LotSize           int           `yaml:"lot_size"`
	ExitCutoff        string        `yaml:"exit_cutoff"` // "HH:MM" market time
	Timezone          string        `yaml:"timezone"`
	Grading           GradingConfig `yaml:"grading"`
}

// GradingConfig defines the weighted-scoring parameters.
type GradingConfig struct {
	VIXWeight       float64 `yaml:"vix_weight"`
	CreditWeight    float64 `yaml:"credit_weight"`
	LiquidityWeight float64 `yaml:"liquidity_weight"`
	VIXSaturation   float64 `yaml:"vix_saturation"`
	CreditRatioCap  float64 `yaml:"credit_ratio_cap"`
	OIFloor         int64   `yaml:"oi_floor"`
}

// TelegramConfig defines the notification endpoint.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// StorageConfig defines where the open position file lives.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RecorderConfig defines the signal-history database. An empty path disables
// recording.
type RecorderConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// DashboardConfig defines the read-only HTTP dashboard. Port 0 disables it.
type DashboardConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// ScheduleConfig defines daemon-mode cron expressions and the market window.
type ScheduleConfig struct {
	EntryCron   string `yaml:"entry_cron"`
	ExitCron    string `yaml:"exit_cron"`
	MarketOpen  string `yaml:"market_open"`  // "HH:MM"
	MarketClose string `yaml:"market_close"` // "HH:MM"
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables so secrets stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Market.Symbol == "" {
		c.Market.Symbol = "NIFTY"
	}
	if c.Market.BaseURL == "" {
		c.Market.BaseURL = defaultBaseURL
	}
	if c.Market.TimeoutSeconds == 0 {
		c.Market.TimeoutSeconds = 15
	}
	if c.Market.RequestsPerMin == 0 {
		c.Market.RequestsPerMin = 10
	}

	def := strategy.DefaultConfig()
	s := &c.Strategy
	if s.OTMOffset == 0 {
		s.OTMOffset = def.OTMOffset
	}
	if s.SpreadWidth == 0 {
		s.SpreadWidth = def.SpreadWidth
	}
	if s.MinNetPremium == 0 {
		s.MinNetPremium = def.MinNetPremium
	}
	if s.MinWingPremium == nil {
		wing := def.MinWingPremium
		s.MinWingPremium = &wing
	}
	if s.MaxVIX == 0 {
		s.MaxVIX = def.MaxVIX
	}
	if s.MinVIX == nil {
		floor := def.MinVIX
		s.MinVIX = &floor
	}
	if s.TargetDecay == 0 {
		s.TargetDecay = def.TargetDecay
	}
	if s.StopMultiple == 0 {
		s.StopMultiple = def.StopMultiple
	}
	if s.MinScoreThreshold == nil {
		threshold := def.MinScoreThreshold
		s.MinScoreThreshold = &threshold
	}
	if s.LotSize == 0 {
		s.LotSize = def.LotSize
	}
	if s.ExitCutoff == "" {
		s.ExitCutoff = defaultExitCutoff
	}
	if s.Timezone == "" {
		s.Timezone = defaultTimezone
	}
	g := &s.Grading
	if g.VIXWeight == 0 && g.CreditWeight == 0 && g.LiquidityWeight == 0 {
		g.VIXWeight = def.Grading.VIX
		g.CreditWeight = def.Grading.Credit
		g.LiquidityWeight = def.Grading.Liquidity
	}
	if g.VIXSaturation == 0 {
		g.VIXSaturation = def.Grading.VIXSaturation
	}
	if g.CreditRatioCap == 0 {
		g.CreditRatioCap = def.Grading.CreditRatioCap
	}
	if g.OIFloor == 0 {
		g.OIFloor = def.Grading.OIFloor
	}

	if c.Storage.Path == "" {
		c.Storage.Path = "data/open_position.json"
	}
	if c.Schedule.EntryCron == "" {
		c.Schedule.EntryCron = "0 25 9 * * 1-5"
	}
	if c.Schedule.ExitCron == "" {
		c.Schedule.ExitCron = "0 */5 9-15 * * 1-5"
	}
	if c.Schedule.MarketOpen == "" {
		c.Schedule.MarketOpen = "09:15"
	}
	if c.Schedule.MarketClose == "" {
		c.Schedule.MarketClose = "15:30"
	}
}

// Validate checks that all configuration values are valid and consistent.
// Failures here are fatal at startup, before any snapshot is processed.
func (c *Config) Validate() error {
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be debug|info|warn|error")
	}

	if c.Market.TimeoutSeconds <= 0 {
		return fmt.Errorf("market.timeout_seconds must be > 0")
	}
	if c.Market.RequestsPerMin <= 0 {
		return fmt.Errorf("market.requests_per_min must be > 0")
	}

	if _, err := c.StrategyConfig(); err != nil {
		return err
	}

	if _, err := parseClock(c.Schedule.MarketOpen); err != nil {
		return fmt.Errorf("schedule.market_open: %w", err)
	}
	if _, err := parseClock(c.Schedule.MarketClose); err != nil {
		return fmt.Errorf("schedule.market_close: %w", err)
	}
	open, _ := parseClock(c.Schedule.MarketOpen)
	clo, _ := parseClock(c.Schedule.MarketClose)
	if open >= clo {
		return fmt.Errorf("schedule market window invalid: open %s not before close %s",
			c.Schedule.MarketOpen, c.Schedule.MarketClose)
	}

	return nil
}

// StrategyConfig maps the YAML strategy section onto the engine's own
// configuration type and validates it.
func (c *Config) StrategyConfig() (strategy.Config, error) {
	cutoff, err := parseClock(c.Strategy.ExitCutoff)
	if err != nil {
		return strategy.Config{}, fmt.Errorf("strategy.exit_cutoff: %w", err)
	}

	cfg := strategy.Config{
		OTMOffset:         c.Strategy.OTMOffset,
		SpreadWidth:       c.Strategy.SpreadWidth,
		MaxVIX:            c.Strategy.MaxVIX,
		MinVIX:            derefFloat(c.Strategy.MinVIX),
		MinNetPremium:     c.Strategy.MinNetPremium,
		MinWingPremium:    derefFloat(c.Strategy.MinWingPremium),
		PCRMin:            c.Strategy.PCRMin,
		PCRMax:            c.Strategy.PCRMax,
		TargetDecay:       c.Strategy.TargetDecay,
		StopMultiple:      c.Strategy.StopMultiple,
		CutoffMinute:      cutoff,
		LotSize:           c.Strategy.LotSize,
		MinScoreThreshold: derefInt(c.Strategy.MinScoreThreshold),
		Grading: strategy.GradingWeights{
			VIX:            c.Strategy.Grading.VIXWeight,
			Credit:         c.Strategy.Grading.CreditWeight,
			Liquidity:      c.Strategy.Grading.LiquidityWeight,
			VIXSaturation:  c.Strategy.Grading.VIXSaturation,
			CreditRatioCap: c.Strategy.Grading.CreditRatioCap,
			OIFloor:        c.Strategy.Grading.OIFloor,
		},
	}
	if err := cfg.Validate(); err != nil {
		return strategy.Config{}, fmt.Errorf("strategy: %w", err)
	}
	return cfg, nil
}

// Location returns the configured market timezone, falling back to a fixed
// IST offset for minimal containers without tzdata.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Strategy.Timezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// IsWithinMarketHours checks if the given time falls inside the Mon-Fri
// trading window in market-local time.
func (c *Config) IsWithinMarketHours(now time.Time) bool {
	local := now.In(c.Location())
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}

	open, err1 := parseClock(c.Schedule.MarketOpen)
	clo, err2 := parseClock(c.Schedule.MarketClose)
	if err1 != nil || err2 != nil {
		// Safe defaults if misconfigured.
		open, clo = 9*60+15, 15*60+30
	}

	minute := local.Hour()*60 + local.Minute()
	return minute >= open && minute <= clo
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
