package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOTELREPORT_LAYOUT_GOAL.
const EnvPrefix = "HOTELREPORT"

// OverrideKeys lists the settings that flags and environment variables may
// replace after the config file has been read.
var OverrideKeys = []string{
	"sources.base_dir",
	"sources.base_url",
	"layout.goal",
	"branding.default_hotel_name",
	"export.chrome_path",
	"output.dir",
	"server.port",
	"logging.level",
	"logging.file",
}

// NewOverrides returns a viper instance reading HOTELREPORT_* variables.
// Callers bind command flags onto it with BindPFlag.
func NewOverrides() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range OverrideKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyOverrides copies every set override into cfg and revalidates it.
// Flags win over environment variables, which win over the file.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	if v.IsSet("sources.base_dir") {
		cfg.Sources.BaseDir = v.GetString("sources.base_dir")
	}
	if v.IsSet("sources.base_url") {
		cfg.Sources.BaseURL = v.GetString("sources.base_url")
	}
	if v.IsSet("layout.goal") {
		cfg.Layout.Goal = v.GetFloat64("layout.goal")
	}
	if v.IsSet("branding.default_hotel_name") {
		cfg.Branding.DefaultHotelName = v.GetString("branding.default_hotel_name")
	}
	if v.IsSet("export.chrome_path") {
		cfg.Export.ChromePath = v.GetString("export.chrome_path")
	}
	if v.IsSet("output.dir") {
		cfg.Output.Dir = v.GetString("output.dir")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.file") {
		cfg.Logging.File = v.GetString("logging.file")
	}
	return cfg.validate()
}
