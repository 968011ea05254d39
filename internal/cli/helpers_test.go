package cli

import "github.com/KeSHaMI/hexaframe/internal/config"

func configWithName(name string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = name
	return cfg
}
