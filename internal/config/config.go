package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ShiftOverride customises or adds a shift template. Fields the override
// leaves empty (or that fail to parse) fall back to the built-in defaults.
type ShiftOverride struct {
	TimeRange string  `yaml:"timeRange,omitempty"` // "06:30 - 15:00"
	Hours     float64 `yaml:"hours,omitempty" validate:"omitempty,gt=0"`
}

// DemandRule contributes station headcounts to every date its RRULE matches
// inside the planning window. Later rules override earlier ones per station.
type DemandRule struct {
	RRule    string         `yaml:"rrule" validate:"required"`
	Stations map[string]int `yaml:"stations" validate:"required,dive,min=0"`
}

// Config represents the application configuration.
type Config struct {
	StoreID     string `yaml:"storeID" env:"ROSTERGEN_STORE_ID" validate:"required"`
	StartDate   string `yaml:"startDate" env:"ROSTERGEN_START_DATE" validate:"required,datetime=2006-01-02"`
	HorizonDays int    `yaml:"horizonDays,omitempty" env:"ROSTERGEN_HORIZON_DAYS" validate:"min=1"`

	EmployeeCSV string `yaml:"employeeCSV" env:"ROSTERGEN_EMPLOYEE_CSV" validate:"required"`
	OutputDir   string `yaml:"outputDir,omitempty" env:"ROSTERGEN_OUTPUT_DIR"`

	SolveBudgetSeconds    int `yaml:"solveBudgetSeconds,omitempty" env:"ROSTERGEN_SOLVE_BUDGET_SECONDS" validate:"min=1"`
	ResolverMaxIterations int `yaml:"resolverMaxIterations,omitempty" env:"ROSTERGEN_RESOLVER_MAX_ITERATIONS" validate:"min=1"`

	ShiftOverrides map[string]ShiftOverride `yaml:"shiftOverrides,omitempty" validate:"dive"`
	DemandRules    []DemandRule             `yaml:"demandRules,omitempty" validate:"dive"`

	// ManagerTemplate maps weekday names (mon..sun) to the expected number
	// of managers on duty that weekday.
	ManagerTemplate map[string]int `yaml:"managerTemplate,omitempty" validate:"dive,min=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

var weekdayIndex = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// Load loads and validates the configuration from rostergen.yaml, looking in
// the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Environment variables override file values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HorizonDays == 0 {
		cfg.HorizonDays = 14
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.SolveBudgetSeconds == 0 {
		cfg.SolveBudgetSeconds = 20
	}
	if cfg.ResolverMaxIterations == 0 {
		cfg.ResolverMaxIterations = 20
	}
}

// Validate validates the configuration struct, rrule syntax and weekday keys.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.DemandRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in demandRules[%d]: %w", i, err)
		}
	}

	for day := range cfg.ManagerTemplate {
		if _, ok := weekdayIndex[strings.ToLower(day)]; !ok {
			return fmt.Errorf("invalid weekday %q in managerTemplate (want mon..sun)", day)
		}
	}

	return nil
}

// Start returns the parsed start date at UTC midnight.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid startDate: %w", err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// End returns the inclusive end date of the planning window.
func (c *Config) End() (time.Time, error) {
	start, err := c.Start()
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, c.HorizonDays-1), nil
}

// SolveBudget returns the solver wall-clock budget.
func (c *Config) SolveBudget() time.Duration {
	return time.Duration(c.SolveBudgetSeconds) * time.Second
}

// ManagerTemplateByWeekday converts the named weekday template into the
// 0=Monday .. 6=Sunday index form the core consumes.
func (c *Config) ManagerTemplateByWeekday() map[int]int {
	if len(c.ManagerTemplate) == 0 {
		return nil
	}
	out := make(map[int]int, len(c.ManagerTemplate))
	for day, n := range c.ManagerTemplate {
		if idx, ok := weekdayIndex[strings.ToLower(day)]; ok {
			out[idx] = n
		}
	}
	return out
}

// findConfigFile searches for rostergen.yaml in the current directory and
// the home directory.
func findConfigFile() (string, error) {
	configFileName := "rostergen.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
