package params

import (
	"io/ioutil"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var vitreusConfig = MainnetConfig()

// VitreusConfig retrieves the vitreus chain config.
func VitreusConfig() *VitreusChainConfig {
	return vitreusConfig
}

// OverrideVitreusConfig by replacing the config. The preferred pattern is to
// call VitreusConfig(), change the specific parameters, and then call
// OverrideVitreusConfig(c). Any subsequent calls to params.VitreusConfig() will
// return this new configuration.
func OverrideVitreusConfig(c *VitreusChainConfig) {
	vitreusConfig = c
}

// Copy returns a copy of the config object.
func (c *VitreusChainConfig) Copy() *VitreusChainConfig {
	config, ok := deepcopy.Copy(*c).(VitreusChainConfig)
	if !ok {
		config = *vitreusConfig
	}
	return &config
}

// LoadChainConfigFile loads the chain config from the given yaml file
// and overrides the process-wide configuration.
func LoadChainConfigFile(path string) error {
	data, err := ioutil.ReadFile(path) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "can't read chain config file")
	}

	cfg := MainnetConfig().Copy()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "can't unmarshal chain config file")
	}

	OverrideVitreusConfig(cfg)
	return nil
}
