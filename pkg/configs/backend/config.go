package backend

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config of the background loops daemon.
type BackendConfig struct {
	// connection string for the database.
	DBURI string `yaml:"dburi"`
}

func LoadBackendConfig(filepath string) (*BackendConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*BackendConfig, error) {
	var out BackendConfig
	err := yaml.Unmarshal(conf, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
