// Package config builds the process configuration once at startup: a YAML
// file when CONFIG_FILE points at one, environment variables otherwise, with
// environment overrides applied on top of the file in both cases.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration struct threaded through the binaries.
// Prior overrides are pointers: nil means "not configured".
type Config struct {
	Port              string
	ArtifactsDir      string
	DataDir           string
	AllowedOrigins    []string
	MaxRequestsPerMin int
	PiTrainOverride   *float64
	PiDeployDefault   *float64
	TrainingCSV       string
}

// ConfigFile is the YAML layout.
type ConfigFile struct {
	Server struct {
		Port            string   `yaml:"port"`
		AllowedOrigins  []string `yaml:"allowedOrigins"`
		RateLimitPerMin int      `yaml:"rateLimitPerMin"`
	} `yaml:"server"`

	Model struct {
		ArtifactsDir    string   `yaml:"artifactsDir"`
		PiTrainOverride *float64 `yaml:"piTrainOverride"`
		PiDeployDefault *float64 `yaml:"piDeployDefault"`
	} `yaml:"model"`

	System struct {
		DataDir     string `yaml:"dataDir"`
		TrainingCSV string `yaml:"trainingCsv"`
	} `yaml:"system"`
}

// Load resolves the configuration: defaults, then CONFIG_FILE if set, then
// environment overrides.
func Load() (Config, error) {
	cfg := Config{
		Port:              "8000",
		ArtifactsDir:      "./artifacts",
		DataDir:           "./data",
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		MaxRequestsPerMin: 120,
		TrainingCSV:       "./lung_cancer_dataset.csv",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.Server.Port != "" {
		cfg.Port = file.Server.Port
	}
	if len(file.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = file.Server.AllowedOrigins
	}
	if file.Server.RateLimitPerMin > 0 {
		cfg.MaxRequestsPerMin = file.Server.RateLimitPerMin
	}
	if file.Model.ArtifactsDir != "" {
		cfg.ArtifactsDir = file.Model.ArtifactsDir
	}
	if file.Model.PiTrainOverride != nil {
		cfg.PiTrainOverride = file.Model.PiTrainOverride
	}
	if file.Model.PiDeployDefault != nil {
		cfg.PiDeployDefault = file.Model.PiDeployDefault
	}
	if file.System.DataDir != "" {
		cfg.DataDir = file.System.DataDir
	}
	if file.System.TrainingCSV != "" {
		cfg.TrainingCSV = file.System.TrainingCSV
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ArtifactsDir = getEnv("ARTIFACTS_DIR", cfg.ArtifactsDir)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.TrainingCSV = getEnv("LUNG_CANCER_CSV", cfg.TrainingCSV)
	cfg.MaxRequestsPerMin = getEnvAsInt("MAX_REQUESTS_PER_MIN", cfg.MaxRequestsPerMin)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.AllowedOrigins = parts
	}

	if v := getEnvAsFloatPtr("PI_TRAIN_OVERRIDE"); v != nil {
		cfg.PiTrainOverride = v
	}
	if v := getEnvAsFloatPtr("PI_DEPLOY_DEFAULT"); v != nil {
		cfg.PiDeployDefault = v
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if v, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return v
	}
	return defaultVal
}

func getEnvAsFloatPtr(name string) *float64 {
	if v, err := strconv.ParseFloat(getEnv(name, ""), 64); err == nil {
		return &v
	}
	return nil
}
