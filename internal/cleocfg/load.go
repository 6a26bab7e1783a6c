package cleocfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig indicates a config.json file could not be parsed.
var ErrInvalidConfig = errors.New("invalid config file")

// Load reads a per-directory config.json, returning a zero Config (not an
// error) if the file does not exist — mirrors the teacher's
// LoadRepoConfig: "Config doesn't exist, return defaults".
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses config.json content directly, the flexible entry point
// the teacher exposes as LoadRepoConfigFromBytes for tests.
func LoadBytes(data []byte) (Config, error) {
	if len(data) == 0 {
		return Config{}, nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Resolve builds the final configuration for one invocation by layering
// defaults -> global -> project -> environment -> cli, in that order
// (spec.md component A). Each layer is optional; pass a zero Config to skip
// it.
func Resolve(global, project, env, cli Config) Config {
	return Merge(Defaults(), global, project, env, cli)
}
