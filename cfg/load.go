/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a configuration file, applies overrides from the environment and fills the
// defaults.
//
// A missing configuration file is not an error. Environment variables are read after loading
// .env from the working directory, if it exists.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	c.FillDefaults()
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEMLET_DATA_DIR"); v != "" {
		c.DataDir = v
	}

	if v := os.Getenv("GEMLET_SAVE_PATH"); v != "" {
		c.DownloadsDir = v
	}

	if v := os.Getenv("GEMLET_HOME"); v != "" {
		c.HomePage = v
	}

	if v := os.Getenv("GEMLET_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	if v := os.Getenv("GEMLET_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid GEMLET_LOG_LEVEL: %w", err)
		}
	}

	return nil
}
