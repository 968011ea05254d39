package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KeSHaMI/hexaframe/internal/fileutil"
	hxerrors "github.com/KeSHaMI/hexaframe/pkg/errors"
)

// maxGoModSize bounds go.mod reads.
const maxGoModSize = 1 << 20

// Loader handles configuration loading and merging.
type Loader struct {
	v           *viper.Viper
	configPath  string
	searchPaths []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader on top of v, so that flags bound to v
// take part in the merge.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	v.SetEnvPrefix("HEXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:           v,
		searchPaths: []string{"."},
	}
}

// WithConfigPath sets an explicit config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithSearchPaths replaces the directories searched for a manifest.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = paths
	return l
}

// Load loads the configuration. A missing manifest is not an error. When
// the manifest names no module, the module line of go.mod in the first
// search path is used.
func (l *Loader) Load() (*Config, error) {
	const op = "config.Load"

	l.setDefaults()

	if err := l.loadConfigFile(); err != nil {
		return nil, hxerrors.ConfigWrap(err, op, "failed to load config file")
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, hxerrors.ConfigWrap(err, op, "failed to unmarshal config")
	}

	if cfg.Module == "" {
		root := "."
		if l.configPath != "" {
			root = filepath.Dir(l.configPath)
		} else if len(l.searchPaths) > 0 {
			root = l.searchPaths[0]
		}
		if mod, err := ModuleFromGoMod(filepath.Join(root, "go.mod")); err == nil {
			cfg.Module = mod
		}
	}
	return cfg, nil
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("go", defaults.GoVersion)
	l.v.SetDefault("http", defaults.HTTP)

	l.v.SetDefault("layout.domain", defaults.Layout.Domain)
	l.v.SetDefault("layout.usecases", defaults.Layout.UseCases)
	l.v.SetDefault("layout.ports", defaults.Layout.Ports)
	l.v.SetDefault("layout.adapters", defaults.Layout.Adapters)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.color", defaults.Output.Color)
	l.v.SetDefault("output.log_level", defaults.Output.LogLevel)
	l.v.SetDefault("output.verbose", defaults.Output.Verbose)
}

func (l *Loader) loadConfigFile() error {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", l.configPath, err)
		}
		return nil
	}

	path, err := FindConfigFile(l.searchPaths...)
	if err != nil {
		// No manifest; defaults apply.
		return nil
	}
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// GetConfigPath returns the path to the loaded config file, if any.
func (l *Loader) GetConfigPath() string {
	return l.v.ConfigFileUsed()
}

// FindConfigFile searches for a manifest and returns its path.
func FindConfigFile(searchPaths ...string) (string, error) {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}

	for _, searchPath := range searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				configFile := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(configFile); err == nil {
					return configFile, nil
				}
			}
		}
	}

	return "", hxerrors.NotFound("config.FindConfigFile", "no config file found")
}

// LoadFromDirectory loads configuration from a directory.
func LoadFromDirectory(dir string) (*Config, error) {
	return NewLoader().WithSearchPaths(dir).Load()
}

// ModuleFromGoMod returns the module path declared in the go.mod at path.
func ModuleFromGoMod(path string) (string, error) {
	const op = "config.ModuleFromGoMod"
	data, err := fileutil.ReadFileLimited(path, maxGoModSize)
	if err != nil {
		return "", hxerrors.IOWrap(err, op, "failed to read go.mod")
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "module"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			mod := strings.Trim(strings.TrimSpace(rest), `"`)
			if mod != "" {
				return mod, nil
			}
		}
	}
	return "", hxerrors.NotFound(op, "no module directive in "+path)
}

// WriteConfig writes cfg as a manifest. The format follows the extension
// of path: .toml, .json, or YAML otherwise.
func WriteConfig(cfg *Config, path string) error {
	const op = "config.WriteConfig"

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return hxerrors.ConfigWrap(err, op, "failed to encode config")
	}

	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return hxerrors.ConfigWrap(err, op, "failed to write config file")
	}
	return nil
}
