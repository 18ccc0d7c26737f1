package utils

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when --config is not given
const DefaultConfigPath = "configs/default.yaml"

// Config represents the main configuration structure
type Config struct {
	Auth      AuthConfig      `yaml:"auth"`
	Drive     DriveConfig     `yaml:"drive"`
	HTTP      HTTPConfig      `yaml:"http"`
	Generator GeneratorConfig `yaml:"generator"`
	Print     PrintConfig     `yaml:"print"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
}

type AuthConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
	TokenFile    string   `yaml:"token_file"`
}

type DriveConfig struct {
	FileName  string `yaml:"file_name"`
	PageSize  int    `yaml:"page_size"`
	Paginate  bool   `yaml:"paginate"`
	APIURL    string `yaml:"api_url"`
	UploadURL string `yaml:"upload_url"`
}

type HTTPConfig struct {
	Timeout           string   `yaml:"timeout"`
	MaxRetries        int      `yaml:"max_retries"`
	RequestsPerSecond int      `yaml:"requests_per_second"`
	VerifyTLS         bool     `yaml:"verify_tls"`
	Proxies           []string `yaml:"proxies"`
}

type GeneratorConfig struct {
	Count int `yaml:"count"`
}

type PrintConfig struct {
	Label     string   `yaml:"label"`
	BarWidth  int      `yaml:"bar_width"`
	BarHeight int      `yaml:"bar_height"`
	Output    string   `yaml:"output"`
	Command   []string `yaml:"command"`
}

type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
}

type LogConfig struct {
	Debug     bool   `yaml:"debug"`
	AuditFile string `yaml:"audit_file"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			Scopes:    []string{"https://www.googleapis.com/auth/drive.file"},
			TokenFile: "~/.aristo/token.json",
		},
		Drive: DriveConfig{
			FileName:  "aristo-unique-codes.txt",
			PageSize:  100,
			Paginate:  true,
			APIURL:    "https://www.googleapis.com/drive/v3",
			UploadURL: "https://www.googleapis.com/upload/drive/v3",
		},
		HTTP: HTTPConfig{
			Timeout:           "30s",
			MaxRetries:        3,
			RequestsPerSecond: 5,
			VerifyTLS:         true,
		},
		Generator: GeneratorConfig{
			Count: 18,
		},
		Print: PrintConfig{
			Label:     "Aristo",
			BarWidth:  2,
			BarHeight: 100,
			Output:    "barcodes.html",
		},
		Report: ReportConfig{
			Format: "json",
			Dir:    "reports",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// TimeoutDuration parses the HTTP timeout, falling back to 30s
func (c HTTPConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
