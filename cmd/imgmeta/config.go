// seehuhn.de/go/imgmeta - image metadata in Go
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"k8s.io/klog/v2"

	"seehuhn.de/go/imgmeta/xmp"
)

// config is the contents of the configuration file.
//
// Example imgmeta.yaml:
//
//	format: json
//	namespaces:
//	  lr: http://ns.adobe.com/lightroom/1.0/
type config struct {
	// Format is the default output format of the print command.
	Format string `mapstructure:"format"`

	// Namespaces maps XMP prefixes to namespace URIs.  Viper folds map
	// keys to lower case, so mixed-case prefixes must be given using
	// the --ns flag.
	Namespaces map[string]string `mapstructure:"namespaces"`
}

// loadConfig reads the configuration.  If file is empty, imgmeta.yaml is
// searched for in the current directory and in the user configuration
// directory.  A missing configuration file is not an error.
// Environment variables IMGMETA_FORMAT etc. override the file.
func loadConfig(file string) (*config, error) {
	v := viper.New()
	v.SetDefault("format", "text")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("imgmeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "imgmeta"))
		}
	}

	v.SetEnvPrefix("imgmeta")
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		klog.V(1).Infof("using config file %s", v.ConfigFileUsed())
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, ok := formats[cfg.Format]; !ok {
		return nil, fmt.Errorf("config: invalid output format %q", cfg.Format)
	}
	return cfg, nil
}

// newRegistry returns a namespace registry which knows the namespaces
// from the configuration file and from the --ns flags.  The flags are
// applied last.
func newRegistry(cfg *config, nsFlags []string) (*xmp.Registry, error) {
	reg := xmp.NewRegistry()

	prefixes := maps.Keys(cfg.Namespaces)
	slices.Sort(prefixes)
	for _, prefix := range prefixes {
		err := reg.Register(cfg.Namespaces[prefix], prefix)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	for _, arg := range nsFlags {
		prefix, ns, err := parseNamespace(arg)
		if err != nil {
			return nil, err
		}
		err = reg.Register(ns, prefix)
		if err != nil {
			return nil, fmt.Errorf("--ns %s: %w", arg, err)
		}
	}
	return reg, nil
}

// parseNamespace splits an argument of the form "prefix=uri".
func parseNamespace(arg string) (prefix, ns string, err error) {
	prefix, ns, ok := strings.Cut(arg, "=")
	if !ok || prefix == "" || ns == "" {
		return "", "", fmt.Errorf("--ns %s: expected prefix=uri", arg)
	}
	return prefix, ns, nil
}
