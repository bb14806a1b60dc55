package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/spf13/viper"
)

// HookSlot is the git hook name woodfmt installs into.
const HookSlot = "pre-commit"

// Config holds all configuration for woodfmt
type Config struct {
	Format FormatConfig `mapstructure:"format" yaml:"format"`
	Tools  ToolsConfig  `mapstructure:"tools" yaml:"tools"`
	Lint   LintConfig   `mapstructure:"lint" yaml:"lint"`
	Hooks  HooksConfig  `mapstructure:"hooks" yaml:"hooks"`
	Model  ModelConfig  `mapstructure:"model" yaml:"model"`

	// Source is the project config file that was read, empty when only defaults apply.
	Source string `mapstructure:"-" yaml:"-"`
}

// FormatConfig controls discovery and the import-grouping profile.
type FormatConfig struct {
	Root             string   `mapstructure:"root" yaml:"root"`
	Extensions       []string `mapstructure:"extensions" yaml:"extensions"`
	LocalPrefix      string   `mapstructure:"local_prefix" yaml:"local_prefix"`
	Exclude          []string `mapstructure:"exclude" yaml:"exclude"`
	RespectGitignore bool     `mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// ToolsConfig holds the tool availability probe settings.
type ToolsConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LintConfig names the external linter run after formatting.
type LintConfig struct {
	Command string        `mapstructure:"command" yaml:"command"`
	Args    []string      `mapstructure:"args" yaml:"args"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// HooksConfig is reported by `config show`; the slot itself is fixed.
type HooksConfig struct {
	Slot string `mapstructure:"slot" yaml:"slot"`
}

// ModelConfig configures the model artifact directory.
type ModelConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ProjectConfigFiles are searched, in order, in the project directory.
var ProjectConfigFiles = []string{
	".woodfmt.yaml",
	".woodfmt.yml",
	"woodfmt.yaml",
	"woodfmt.yml",
	".woodfmt.toml",
	"woodfmt.toml",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format: FormatConfig{
			Root:             ".",
			Extensions:       []string{".go"},
			Exclude:          []string{},
			RespectGitignore: true,
		},
		Tools: ToolsConfig{Timeout: 10 * time.Second},
		Lint: LintConfig{
			Command: "go",
			Args:    []string{"vet", "./..."},
			Timeout: 5 * time.Minute,
		},
		Hooks: HooksConfig{Slot: HookSlot},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("format.root", d.Format.Root)
	v.SetDefault("format.extensions", d.Format.Extensions)
	v.SetDefault("format.local_prefix", d.Format.LocalPrefix)
	v.SetDefault("format.exclude", d.Format.Exclude)
	v.SetDefault("format.respect_gitignore", d.Format.RespectGitignore)
	v.SetDefault("tools.timeout", d.Tools.Timeout)
	v.SetDefault("lint.command", d.Lint.Command)
	v.SetDefault("lint.args", d.Lint.Args)
	v.SetDefault("lint.timeout", d.Lint.Timeout)
	v.SetDefault("model.dir", d.Model.Dir)
}

// Load reads configuration for the project rooted at dir: defaults, then the
// first project config file found, then WOODFMT_* environment variables.
// A project file that fails schema validation is a KindConfig error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WOODFMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := FindProjectConfig(dir)
	if source != "" {
		data, err := os.ReadFile(source) // #nosec G304 -- fixed file names under the project dir
		if err != nil {
			return nil, fault.New(fault.KindIO, "read "+source, err)
		}
		if err := ValidateFile(source, data); err != nil {
			return nil, fault.New(fault.KindConfig, source, err)
		}
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			return nil, fault.New(fault.KindConfig, source, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fault.New(fault.KindConfig, "unmarshal config", err)
	}
	cfg.Hooks.Slot = HookSlot
	cfg.Source = source
	cfg.Format.Extensions = normalizeExtensions(cfg.Format.Extensions)
	return &cfg, nil
}

// FindProjectConfig returns the first project config file present in dir.
func FindProjectConfig(dir string) string {
	for _, name := range ProjectConfigFiles {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// HasExtension reports whether path carries one of the configured source extensions.
func (c FormatConfig) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ResolveRoot returns the format root relative to base unless it is absolute.
func (c FormatConfig) ResolveRoot(base string) string {
	if c.Root == "" {
		return base
	}
	if filepath.IsAbs(c.Root) {
		return c.Root
	}
	return filepath.Join(base, c.Root)
}

func (c LintConfig) String() string {
	return fmt.Sprintf("%s %s", c.Command, strings.Join(c.Args, " "))
}
