// Package config assembles server settings from defaults, an optional HCL
// file named by HANOI_CONFIG, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/akonno/HanoiSimulator/internal/hanoi"
)

// Config holds everything main needs to start the server.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	ClientOrigin string
	Production   bool

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string

	Disks    int
	MaxDisks int
	Geometry hanoi.Geometry
}

// TokenLifetime is the JWT validity window.
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// Default returns the reference configuration: 7 disks, 60 steps per phase.
func Default() *Config {
	return &Config{
		Port:           "5175",
		LogLevel:       "info",
		DBPath:         "./data/hanoi.db",
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "hanoi_token",
		Disks:          7,
		MaxDisks:       16,
		Geometry:       hanoi.DefaultGeometry(),
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("HANOI_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the simulator depends on.
func (c *Config) Validate() error {
	if c.MaxDisks < 1 {
		return fmt.Errorf("max_disks must be >= 1, got %d", c.MaxDisks)
	}
	if c.Disks < 0 || c.Disks > c.MaxDisks {
		return fmt.Errorf("disks must be within 0..%d, got %d", c.MaxDisks, c.Disks)
	}
	if c.JWTExpiresDays < 1 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be >= 1, got %d", c.JWTExpiresDays)
	}
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.ClientOrigin = getEnv("CLIENT_ORIGIN", c.ClientOrigin)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CookieName = getEnv("COOKIE_NAME", c.CookieName)
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Production = v == "production"
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"JWT_EXPIRES_DAYS", &c.JWTExpiresDays},
		{"HANOI_DISKS", &c.Disks},
		{"HANOI_MAX_DISKS", &c.MaxDisks},
		{"HANOI_STEPS_PER_PHASE", &c.Geometry.StepsPerPhase},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"HANOI_HOVER_HEIGHT", &c.Geometry.HoverHeight},
		{"HANOI_PEG_SPACING", &c.Geometry.PegSpacing},
		{"HANOI_DISK_THICKNESS", &c.Geometry.DiskThickness},
		{"HANOI_HALF_PEG_HEIGHT", &c.Geometry.HalfPegHeight},
	}
	for _, e := range floats {
		if v := os.Getenv(e.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = f
		}
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// --- HCL file ---

type fileConfig struct {
	Server    *serverBlock    `hcl:"server,block"`
	Puzzle    *puzzleBlock    `hcl:"puzzle,block"`
	Animation *animationBlock `hcl:"animation,block"`
}

type serverBlock struct {
	Port         *string `hcl:"port,optional"`
	LogLevel     *string `hcl:"log_level,optional"`
	DBPath       *string `hcl:"db_path,optional"`
	ClientOrigin *string `hcl:"client_origin,optional"`
}

type puzzleBlock struct {
	Disks    *int `hcl:"disks,optional"`
	MaxDisks *int `hcl:"max_disks,optional"`
}

type animationBlock struct {
	StepsPerPhase *int     `hcl:"steps_per_phase,optional"`
	HoverHeight   *float64 `hcl:"hover_height,optional"`
	PegSpacing    *float64 `hcl:"peg_spacing,optional"`
	DiskThickness *float64 `hcl:"disk_thickness,optional"`
	HalfPegHeight *float64 `hcl:"half_peg_height,optional"`
}

// applyFile overlays the attributes present in an HCL file.
func (c *Config) applyFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	if s := fc.Server; s != nil {
		setString(&c.Port, s.Port)
		setString(&c.LogLevel, s.LogLevel)
		setString(&c.DBPath, s.DBPath)
		setString(&c.ClientOrigin, s.ClientOrigin)
	}
	if p := fc.Puzzle; p != nil {
		setInt(&c.Disks, p.Disks)
		setInt(&c.MaxDisks, p.MaxDisks)
	}
	if a := fc.Animation; a != nil {
		setInt(&c.Geometry.StepsPerPhase, a.StepsPerPhase)
		setFloat(&c.Geometry.HoverHeight, a.HoverHeight)
		setFloat(&c.Geometry.PegSpacing, a.PegSpacing)
		setFloat(&c.Geometry.DiskThickness, a.DiskThickness)
		setFloat(&c.Geometry.HalfPegHeight, a.HalfPegHeight)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
