// Package config loads the YAML-driven settings for the simulation core:
// tick rate, world dimensions, navigation tuning, and plan/job economics.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all simulation configuration values.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	World      WorldConfig      `yaml:"world"`
	Generation GenerationConfig `yaml:"generation"`
	Navigation NavigationConfig `yaml:"navigation"`
	Plan       PlanConfig       `yaml:"plan"`
	Agents     AgentConfig      `yaml:"agents"`
}

// EngineConfig controls the fixed-step simulation clock.
type EngineConfig struct {
	TPS                int     `yaml:"tps"`
	MaxFrameSeconds    float64 `yaml:"max_frame_seconds"`
	MaxStepsPerFrame   int     `yaml:"max_steps_per_frame"`
}

// WorldConfig controls grid dimensions and the starting inventory.
type WorldConfig struct {
	Width       int   `yaml:"width"`
	Height      int   `yaml:"height"`
	Seed        int64 `yaml:"seed"`
	StartWood   int32 `yaml:"start_wood"`
	StartFood   int32 `yaml:"start_food"`
}

// GenerationConfig tunes the procedural world generator.
type GenerationConfig struct {
	Octaves           int     `yaml:"octaves"`
	Lacunarity        float64 `yaml:"lacunarity"`
	Gain              float64 `yaml:"gain"`
	HeightScale       float64 `yaml:"height_scale"`
	MoistureScale     float64 `yaml:"moisture_scale"`
	TemperatureScale  float64 `yaml:"temperature_scale"`
	RiverFlowThreshold float64 `yaml:"river_flow_threshold"`
	ChunkSize         int     `yaml:"chunk_size"`
}

// NavigationConfig tunes the HPA* abstraction.
type NavigationConfig struct {
	ClusterSize           int  `yaml:"cluster_size"`
	EntranceSplitThreshold int  `yaml:"entrance_split_threshold"`
	AllowDiagonal          bool `yaml:"allow_diagonal"`
	SmoothPaths            bool `yaml:"smooth_paths"`
	StoreIntraPaths        bool `yaml:"store_intra_paths"`
}

// PlanConfig tunes plan/job behavior.
type PlanConfig struct {
	WorkRatePerSecond float64 `yaml:"work_rate_per_second"`
	TilesPath         string  `yaml:"tiles_path"`
}

// AgentConfig tunes colonist movement, work, and the farm growth pass.
type AgentConfig struct {
	StartColonists int     `yaml:"start_colonists"`
	MoveSpeed      float64 `yaml:"move_speed"`
	GrowthRate     float64 `yaml:"growth_rate"`
	GrowthMatureAt float64 `yaml:"growth_mature_at"`
	FoodPerHarvest float64 `yaml:"food_per_harvest"`
}

const (
	defaultTPS              = 60
	defaultMaxFrameSeconds  = 0.25
	defaultMaxStepsPerFrame = 120
)

// GetTPS returns the configured tick rate, or the engine default.
func (c *Config) GetTPS() int {
	if c != nil && c.Engine.TPS > 0 {
		return c.Engine.TPS
	}
	return defaultTPS
}

// GetMaxFrameSeconds returns the spiral-of-death clamp, or the engine default.
func (c *Config) GetMaxFrameSeconds() float64 {
	if c != nil && c.Engine.MaxFrameSeconds > 0 {
		return c.Engine.MaxFrameSeconds
	}
	return defaultMaxFrameSeconds
}

// GetMaxStepsPerFrame returns the catch-up cap, or the engine default.
func (c *Config) GetMaxStepsPerFrame() int {
	if c != nil && c.Engine.MaxStepsPerFrame > 0 {
		return c.Engine.MaxStepsPerFrame
	}
	return defaultMaxStepsPerFrame
}

// GlobalConfig is a package-level handle on the last loaded config; the
// simulation core itself takes a *Config explicitly and never reads this,
// it exists only for CLI wiring convenience.
var GlobalConfig *Config

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", filename, err)
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// MustLoadConfig loads the configuration and panics on error.
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("config: failed to load: " + err.Error())
	}
	return cfg
}

// Default returns a Config populated with the engine's built-in defaults,
// used when no config file is supplied (e.g. headless CLI runs).
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TPS:              defaultTPS,
			MaxFrameSeconds:  defaultMaxFrameSeconds,
			MaxStepsPerFrame: defaultMaxStepsPerFrame,
		},
		World: WorldConfig{
			Width:     128,
			Height:    128,
			StartWood: 50,
			StartFood: 20,
		},
		Generation: GenerationConfig{
			Octaves:            5,
			Lacunarity:         2.0,
			Gain:               0.5,
			HeightScale:        64,
			MoistureScale:      80,
			TemperatureScale:   96,
			RiverFlowThreshold: 48.0,
			ChunkSize:          32,
		},
		Navigation: NavigationConfig{
			ClusterSize:            32,
			EntranceSplitThreshold: 5,
			AllowDiagonal:          true,
			SmoothPaths:            true,
			StoreIntraPaths:        true,
		},
		Plan: PlanConfig{
			WorkRatePerSecond: 1.0,
			TilesPath:         "assets/tiles.yaml",
		},
		Agents: AgentConfig{
			StartColonists: 3,
			MoveSpeed:      4.0,
			GrowthRate:     0.1,
			GrowthMatureAt: 1.0,
			FoodPerHarvest: 2.0,
		},
	}
}
