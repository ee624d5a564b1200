package utils

import (
	"os"
	"path/filepath"
)

var (
	InfluenceHome   string
	InfluenceConfig string
)

func GetInfluenceHome() string {
	if InfluenceHome != "" {
		return InfluenceHome
	}

	home := os.Getenv("INFLUENCEHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".influence"))
}

func GetInfluenceConfigPath() string {
	if InfluenceConfig != "" {
		return InfluenceConfig
	}

	return GetInfluenceHome() + "/config/config.toml"
}
