// Package config loads the hexa project manifest and CLI settings.
package config

// Config is the hexa manifest (hexa.yaml) merged with environment and flag
// overrides.
type Config struct {
	// Module is the Go module path of the project. Empty means "read go.mod".
	Module string `mapstructure:"module" json:"module" yaml:"module" toml:"module"`
	// Name is the project name; it names the cmd/<name> binary.
	Name string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	// GoVersion is written to the go directive of generated go.mod files.
	GoVersion string       `mapstructure:"go" json:"go" yaml:"go" toml:"go"`
	HTTP      string       `mapstructure:"http" json:"http" yaml:"http" toml:"http"`
	Layout    LayoutConfig `mapstructure:"layout" json:"layout" yaml:"layout" toml:"layout"`
	Output    OutputConfig `mapstructure:"output" json:"-" yaml:"-" toml:"-"`
}

// LayoutConfig holds the project-relative directories the generators
// write into.
type LayoutConfig struct {
	Domain   string `mapstructure:"domain" json:"domain" yaml:"domain" toml:"domain"`
	UseCases string `mapstructure:"usecases" json:"usecases" yaml:"usecases" toml:"usecases"`
	Ports    string `mapstructure:"ports" json:"ports" yaml:"ports" toml:"ports"`
	Adapters string `mapstructure:"adapters" json:"adapters" yaml:"adapters" toml:"adapters"`
}

// OutputConfig controls CLI output. It is never written to manifests.
type OutputConfig struct {
	Format   string `mapstructure:"format" json:"format"`
	Color    bool   `mapstructure:"color" json:"color"`
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" json:"verbose"`
}

// HTTP adapter choices.
const (
	HTTPChi  = "chi"
	HTTPNone = "none"
)

// DefaultGoVersion is the go directive used when none is configured.
const DefaultGoVersion = "1.24"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GoVersion: DefaultGoVersion,
		HTTP:      HTTPChi,
		Layout: LayoutConfig{
			Domain:   "internal/domain",
			UseCases: "internal/usecases",
			Ports:    "internal/ports",
			Adapters: "internal/adapters",
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			LogLevel: "info",
		},
	}
}

// ConfigFileNames to search for.
var ConfigFileNames = []string{
	"hexa",
	".hexa",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"toml",
	"json",
}
