package config

import (
	"fmt"
	"os"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

type providerFile struct {
	Providers []domain.RateProvider `yaml:"providers"`
}

// LoadProviders reads the rate provider seed list from a yaml file.
// An empty path yields no providers.
func LoadProviders(path string) ([]domain.RateProvider, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate providers file %s: %w", path, err)
	}

	var parsed providerFile
	if err := yaml.Unmarshal(f, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rate providers file %s: %w", path, err)
	}

	for i, p := range parsed.Providers {
		if p.Name == "" || p.BaseURL == "" {
			return nil, fmt.Errorf("incorrect provider #%d in %s: name and baseUrl are required", i, path)
		}
		if p.APIKey != "" {
			parsed.Providers[i].APIKey = os.ExpandEnv(p.APIKey)
		}
	}
	return parsed.Providers, nil
}
