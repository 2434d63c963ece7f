package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources  Sources  `yaml:"sources"`
	Fetch    Fetch    `yaml:"fetch"`
	Layout   Layout   `yaml:"layout"`
	Branding Branding `yaml:"branding"`
	Export   Export   `yaml:"export"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

// Sources names the three input documents. Each entry is either an
// http(s) URL or a path; relative paths are joined onto BaseURL when it
// is set and onto BaseDir otherwise.
type Sources struct {
	BaseURL     string `yaml:"base_url"`
	BaseDir     string `yaml:"base_dir"`
	Report      string `yaml:"report"`
	Dashboard   string `yaml:"dashboard"`
	Competitors string `yaml:"competitors"`
}

type Fetch struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Layout struct {
	Goal               float64 `yaml:"goal"`
	StaffRowsPerPage   int     `yaml:"staff_rows_per_page"`
	SolutionsFirstPage int     `yaml:"solutions_first_page"`
}

type Branding struct {
	DefaultHotelName string  `yaml:"default_hotel_name"`
	Contact          Contact `yaml:"contact"`
}

type Contact struct {
	Email        string `yaml:"email"`
	Website      string `yaml:"website"`
	CompanyName  string `yaml:"company_name"`
	AddressLine1 string `yaml:"address_line_1"`
	AddressLine2 string `yaml:"address_line_2"`
}

type Export struct {
	PageWidth  float64       `yaml:"page_width"`
	PageHeight float64       `yaml:"page_height"`
	Scale      float64       `yaml:"scale"`
	ChromePath string        `yaml:"chrome_path"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Output struct {
	Dir string `yaml:"dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConfigDir returns the XDG config directory for hotelreport.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "hotelreport")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/hotelreport/config.yaml > ./config.yaml
// An empty result with a nil error means no file exists and the
// built-in defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			BaseDir:     ".",
			Report:      "data.json",
			Dashboard:   "dashboard.json",
			Competitors: "competitors.json",
		},
		Fetch: Fetch{
			Timeout:   15 * time.Second,
			UserAgent: "hotelreport/1.0",
		},
		Layout: Layout{
			Goal:               8,
			StaffRowsPerPage:   12,
			SolutionsFirstPage: 5,
		},
		Branding: Branding{
			DefaultHotelName: "Excelsior Hotel Gallia",
			Contact: Contact{
				Email:        "info@wheretoknow.com",
				Website:      "www.wheretoknow.com",
				CompanyName:  "Where to know Insights GmbH",
				AddressLine1: "Potsdamer Platz 10 Haus 2, 5. OG Quartier",
				AddressLine2: "Potsdamer Platz 10785, Berlin Germany",
			},
		},
		Export: Export{
			PageWidth:  1240,
			PageHeight: 1754,
			Scale:      2,
			Timeout:    90 * time.Second,
		},
		Output:  Output{Dir: "./out"},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sources.Report == "" {
		return fmt.Errorf("sources.report must not be empty")
	}
	if c.Layout.StaffRowsPerPage < 1 {
		return fmt.Errorf("layout.staff_rows_per_page must be at least 1")
	}
	if c.Layout.SolutionsFirstPage < 0 {
		return fmt.Errorf("layout.solutions_first_page must not be negative")
	}
	if c.Export.PageWidth <= 0 || c.Export.PageHeight <= 0 {
		return fmt.Errorf("export page size must be positive")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
