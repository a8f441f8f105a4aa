package frontend

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config of admitd, the admission REST daemon.
type FrontendConfig struct {
	// port to listen on.
	ServerPort string `yaml:"port"`

	// connection string for the database.
	DBURI string `yaml:"dburi"`

	// HMAC secret verifying bearer tokens. Empty disables authentication
	// (for development only).
	AuthSecret string `yaml:"authSecret"`

	// member-provisioning endpoint called on conversion.
	Provisioning ProvisioningConfig `yaml:"provisioning"`

	// where uploaded document bytes are stored.
	Storage StorageConfig `yaml:"storage"`
}

type ProvisioningConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

type StorageConfig struct {
	Root string `yaml:"root"`
}

func LoadFrontendConfig(filepath string) (*FrontendConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*FrontendConfig, error) {
	var out FrontendConfig
	err := yaml.Unmarshal(conf, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
