package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GenerateFromConfigDir merges every *.hcl file found below configDir into
// ignitionConfig. A missing directory is not an error; the configuration
// then consists of defaults and environment variables only.
func (ignitionConfig *Ignition) GenerateFromConfigDir(configDir string) error {
	configDir = strings.TrimRight(configDir, "/")
	if configDir == "" {
		return nil
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		log.WithField("dir", configDir).Info("config directory does not exist, using defaults")
		return nil
	}

	matches, err := findFilesInPath(configDir)
	if err != nil {
		return err
	}

	for _, m := range matches {
		log.Infof("found config file: %s", m)

		contents, err := os.ReadFile(m)
		if err != nil {
			return errors.Wrapf(err, "could not read configuration file %s", m)
		}

		if err := ignitionConfig.Parse(contents); err != nil {
			return errors.Wrapf(err, "could not parse configuration file %s", m)
		}
	}

	return nil
}

// Parse merges a single HCL document into ignitionConfig.
func (ignitionConfig *Ignition) Parse(contents []byte) error {
	return hcl.Unmarshal(contents, ignitionConfig)
}

// Load reads configDir, resolves environment references and applies
// defaults.
func Load(configDir string) (*Ignition, error) {
	ignitionConfig := &Ignition{}
	if err := ignitionConfig.GenerateFromConfigDir(configDir); err != nil {
		return nil, err
	}
	if err := ignitionConfig.Resolve(); err != nil {
		return nil, err
	}
	return ignitionConfig, nil
}
