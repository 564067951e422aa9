package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apt-warden/internal/types"
)

// LoadTrustConfig reads the origin classification policy from a YAML file.
func LoadTrustConfig(path string) (types.TrustConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TrustConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("trust policy file not found").
			WithCause(err)
	}
	cfg := types.TrustConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.TrustConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse trust policy file").
			WithCause(err)
	}
	return cfg, nil
}
