package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds the service and app configuration. The Gemini API key is
// read from the GEMINI_API_KEY environment variable first, then from the
// config file.
type Settings struct {
	ListenAddr   string  `yaml:"listen_addr"`
	BaseURL      string  `yaml:"base_url"`
	DatabasePath string  `yaml:"database_path"`
	UploadDir    string  `yaml:"upload_dir"`
	LogDir       string  `yaml:"log_dir"`
	SessionPath  string  `yaml:"session_path"`
	GeminiAPIKey string  `yaml:"gemini_api_key"`
	Location     string  `yaml:"location"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
}

// Defaults mirror the development setup: a local service on :3001 with
// Bandung as the fallback location.
func Defaults() Settings {
	return Settings{
		ListenAddr:   ":3001",
		BaseURL:      "http://localhost:3001",
		DatabasePath: "soraifarm.db",
		UploadDir:    "public/uploads",
		LogDir:       "logs",
		SessionPath:  ".soraifarm/session.json",
		Location:     "Bandung",
		Latitude:     -6.9175,
		Longitude:    107.6191,
	}
}

// Load reads path into Settings on top of Defaults. A missing file is not
// an error; the defaults are returned so a bare checkout runs.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnv()
			return s, nil
		}
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config: %w", err)
	}
	s.applyEnv()
	return s, nil
}

func (s *Settings) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		s.GeminiAPIKey = key
	}
}

// Save writes the settings back as yaml.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
