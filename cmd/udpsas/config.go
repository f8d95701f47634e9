// Copyright 2026 The udpsas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/packetwise/udpsas/echo"
)

// Config is the serve command's configuration file schema.
type Config struct {
	Echo    echo.Config   `yaml:"echo"`
	DNSEcho DNSEchoConfig `yaml:"dnsecho"`
	Metrics string        `yaml:"metrics"` // HTTP address for /metrics and /healthz, empty disables
}

// DNSEchoConfig configures the optional DNS address reporter.
type DNSEchoConfig struct {
	Listen string `yaml:"listen"` // UDP listen address, empty disables
}

// loadConfig reads a yaml config file. An empty path yields the zero
// Config, leaving every setting to its default.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
