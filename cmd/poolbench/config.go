package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes a benchmark run. Values come from defaults, then an
// optional YAML file, then explicitly set flags, in that order.
type Config struct {
	Goroutines int      `yaml:"goroutines" json:"goroutines"`
	Cycles     int      `yaml:"cycles" json:"cycles"`
	Capacity   int      `yaml:"capacity" json:"capacity"`
	BufferSize int      `yaml:"buffer_size" json:"buffer_size"`
	Prefill    bool     `yaml:"prefill" json:"prefill"`
	Workloads  []string `yaml:"workloads" json:"workloads"`
}

func defaultConfig() Config {
	return Config{
		Goroutines: runtime.NumCPU(),
		Cycles:     100000,
		Capacity:   1024,
		BufferSize: 4096,
		Prefill:    true,
		Workloads:  []string{"pool", "shared", "local", "baseline"},
	}
}

// loadConfig reads a YAML configuration file into cfg.
func loadConfig(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is provided by the operator
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
