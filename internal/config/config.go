package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/safewalk/safewalk-backend-go/internal/scoring"
)

// Config 应用配置
type Config struct {
	Port      string `yaml:"port"`
	DBPath    string `yaml:"db_path"`
	JWTSecret string `yaml:"jwt_secret"`

	// Grid / decay / confidence constants.
	GridResDegrees float64 `yaml:"grid_res_degrees"`
	HalfLifeHours  float64 `yaml:"half_life_hours"`
	KConf          float64 `yaml:"k_conf"`

	// Route sampling defaults.
	StepMeters       float64 `yaml:"step_meters"`
	MaxNearestMeters float64 `yaml:"max_nearest_meters"`
	DetourMeters     float64 `yaml:"detour_meters"`

	// Optional historical-audit CSV imported at startup.
	HistoricalCSV string `yaml:"historical_csv"`

	// Geocoding collaborator.
	NominatimURL string `yaml:"nominatim_url"`
	UserAgent    string `yaml:"user_agent"`

	Heuristic scoring.Weights `yaml:"heuristic"`
}

// Load 加载配置: defaults, then the optional CONFIG_PATH YAML file, then env
// overrides. Invalid constants fail fast here rather than corrupting the
// sampling or decay semantics downstream.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             ":8080",
		DBPath:           "./data/audits/audits.db",
		JWTSecret:        "your-secret-key-change-in-production",
		GridResDegrees:   0.001,
		HalfLifeHours:    72.0,
		KConf:            5.0,
		StepMeters:       50.0,
		MaxNearestMeters: 300.0,
		DetourMeters:     200.0,
		NominatimURL:     "https://nominatim.openstreetmap.org/search",
		UserAgent:        "safewalk-backend/1.0",
		Heuristic:        scoring.DefaultWeights(),
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("HISTORICAL_CSV"); v != "" {
		cfg.HistoricalCSV = v
	}
	if v := os.Getenv("NOMINATIM_URL"); v != "" {
		cfg.NominatimURL = v
	}
	envFloat("GRID_RES_DEGREES", &cfg.GridResDegrees)
	envFloat("T_HALF_HOURS", &cfg.HalfLifeHours)
	envFloat("K_CONF", &cfg.KConf)
	envFloat("STEP_METERS", &cfg.StepMeters)
	envFloat("MAX_NEAREST_METERS", &cfg.MaxNearestMeters)
	envFloat("DETOUR_METERS", &cfg.DetourMeters)
}

func envFloat(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}

// Validate rejects constants that would silently corrupt the engine.
func (c *Config) Validate() error {
	if c.GridResDegrees <= 0 {
		return fmt.Errorf("grid_res_degrees must be positive, got %v", c.GridResDegrees)
	}
	if c.HalfLifeHours <= 0 {
		return fmt.Errorf("half_life_hours must be positive, got %v", c.HalfLifeHours)
	}
	if c.KConf <= 0 {
		return fmt.Errorf("k_conf must be positive, got %v", c.KConf)
	}
	if c.StepMeters <= 0 {
		return fmt.Errorf("step_meters must be positive, got %v", c.StepMeters)
	}
	if c.MaxNearestMeters <= 0 {
		return fmt.Errorf("max_nearest_meters must be positive, got %v", c.MaxNearestMeters)
	}
	if c.DetourMeters <= 0 {
		return fmt.Errorf("detour_meters must be positive, got %v", c.DetourMeters)
	}
	return nil
}
