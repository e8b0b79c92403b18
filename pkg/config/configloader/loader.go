// Package configloader assembles a service configuration from a YAML file, a .env file and the environment.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
	configFileEnv     = "CONFIG_FILE"
)

type Validator interface {
	Validate() error
}

// Load reads the configuration for serviceName, lowest to highest priority:
// the YAML file, the .env file, then <SERVICE>_ prefixed environment variables.
// <SERVICE>_CONFIG_FILE overrides the YAML file location.
// Missing files are skipped; unreadable ones are logged and skipped.
func Load[T Validator](serviceName string) (T, error) {
	var cfg T
	k := koanf.New(".")
	prefix := strings.ToUpper(serviceName) + "_"
	toKey := keyTransformer(prefix)

	configFile := os.Getenv(prefix + configFileEnv)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
	}

	if err := loadDotEnv(k, defaultEnvFile, toKey); err != nil {
		log.Printf("WARN: error loading %s: %v", defaultEnvFile, err)
	}

	if err := k.Load(env.Provider(prefix, ".", toKey), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// keyTransformer maps PRODUCT_DATABASE_URL to database.url.
func keyTransformer(prefix string) func(string) string {
	lowerPrefix := strings.ToLower(prefix)
	return func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}

// loadDotEnv merges the variables of a .env file into k. A missing file is not an error.
func loadDotEnv(k *koanf.Koanf, path string, toKey func(string) string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	values := make(map[string]any, len(vars))
	for key, value := range vars {
		values[toKey(key)] = value
	}
	return k.Load(confmap.Provider(values, "."), nil)
}
