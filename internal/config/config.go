// Package config loads cog.toml (§6), the repo-level configuration that
// overrides commit types, declares monorepo packages, and sets
// changelog/bump defaults. It generalizes the teacher's root.go viper
// binding into a typed, validated settings struct.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/monorepo"
)

// EnvOverride is the environment variable that can redirect config
// loading to a specific file, mirroring cocogitto's own escape hatch.
const EnvOverride = "COCOGITTO_CONFIG_PATH"

// FileName is the default config file basename, without extension.
const FileName = "cog"

// CommitTypeOverride is a `commit_types.<name>` entry (§6): either a
// brand new type or a field-level override of a default one.
type CommitTypeOverride struct {
	ChangelogTitle    string `mapstructure:"changelog_title"`
	OmitFromChangelog bool   `mapstructure:"omit_from_changelog"`
	BumpMinor         bool   `mapstructure:"bump_minor"`
	BumpPatch         bool   `mapstructure:"bump_patch"`
}

// HookProfileConfig is a `bump_profiles.<name>` entry (§6).
type HookProfileConfig struct {
	Pre  []string `mapstructure:"pre_bump_hooks"`
	Post []string `mapstructure:"post_bump_hooks"`
}

// PackageConfig is a `packages.<name>` entry (§3 MonoRepoPackage).
type PackageConfig struct {
	Path          string                       `mapstructure:"path" validate:"required"`
	Include       []string                     `mapstructure:"include"`
	Ignore        []string                     `mapstructure:"ignore"`
	ChangelogPath string                       `mapstructure:"changelog_path"`
	PublicAPI     bool                         `mapstructure:"public_api"`
	PreHooks      []string                     `mapstructure:"pre_bump_hooks"`
	PostHooks     []string                     `mapstructure:"post_bump_hooks"`
	BumpProfiles  map[string]HookProfileConfig `mapstructure:"bump_profiles"`
}

// AuthorConfig is a `changelog.authors` entry (§6).
type AuthorConfig struct {
	Signature string `mapstructure:"signature" validate:"required"`
	Username  string `mapstructure:"username" validate:"required"`
}

// ChangelogConfig is the `changelog.*` table (§6).
type ChangelogConfig struct {
	Template   string         `mapstructure:"template"`
	Path       string         `mapstructure:"path"`
	Remote     string         `mapstructure:"remote"`
	Owner      string         `mapstructure:"owner"`
	Repository string         `mapstructure:"repository"`
	Authors    []AuthorConfig `mapstructure:"authors"`
}

// Config is the fully parsed cog.toml (§6), non-exhaustive key list.
type Config struct {
	TagPrefix              string                         `mapstructure:"tag_prefix"`
	MonorepoSeparator      string                         `mapstructure:"monorepo_separator"`
	IgnoreMergeCommits     bool                           `mapstructure:"ignore_merge_commits"`
	OnlyFirstParent        bool                           `mapstructure:"only_first_parent"`
	DisableChangelog       bool                           `mapstructure:"disable_changelog"`
	DisableBumpCommit      bool                           `mapstructure:"disable_bump_commit"`
	SkipCI                 string                         `mapstructure:"skip_ci"`
	PreBumpHooks           []string                       `mapstructure:"pre_bump_hooks"`
	PostBumpHooks          []string                       `mapstructure:"post_bump_hooks"`
	PrePackageBumpHooks    []string                       `mapstructure:"pre_package_bump_hooks"`
	PostPackageBumpHooks   []string                       `mapstructure:"post_package_bump_hooks"`
	BumpProfiles           map[string]HookProfileConfig   `mapstructure:"bump_profiles"`
	CommitTypes            map[string]CommitTypeOverride  `mapstructure:"commit_types"`
	Changelog              ChangelogConfig                `mapstructure:"changelog"`
	Packages               map[string]PackageConfig       `mapstructure:"packages"`
}

// Defaults seeds viper with cocogitto's own defaults (§3/§6) before a
// config file is read, so a repo with no cog.toml still behaves
// sensibly.
func Defaults(v *viper.Viper) {
	v.SetDefault("tag_prefix", "v")
	v.SetDefault("monorepo_separator", "-")
	v.SetDefault("ignore_merge_commits", true)
	v.SetDefault("changelog.template", "default")
	v.SetDefault("changelog.path", "CHANGELOG.md")
}

// Load reads cog.toml from path (repo root) or the file named by the
// COCOGITTO_CONFIG_PATH environment variable when set, the same
// flag-then-env precedence the teacher's initConfig applies to
// --config/$HOME/.gotaglog.yaml.
func Load(repoPath string) (*Config, error) {
	v := viper.New()
	Defaults(v)

	if override := os.Getenv(EnvOverride); override != "" {
		v.SetConfigFile(override)
	} else {
		v.AddConfigPath(repoPath)
		v.SetConfigType("toml")
		v.SetConfigName(FileName)
	}

	v.SetEnvPrefix("COG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks schema-level invariants with go-playground/validator,
// the same `validator.New().Struct(...)` pattern used to check release
// rules before they feed the bump increment logic.
func validate(cfg *Config) error {
	validate := validator.New()
	for name, pkg := range cfg.Packages {
		if err := validate.Struct(pkg); err != nil {
			return wrapValidation("packages."+name, err)
		}
	}
	for i, author := range cfg.Changelog.Authors {
		if err := validate.Struct(author); err != nil {
			return wrapValidation("changelog.authors["+strconv.Itoa(i)+"]", err)
		}
	}
	return nil
}

func wrapValidation(section string, err error) error {
	return &ValidationError{Section: section, Err: err}
}

// ValidationError reports which config section failed validator checks.
type ValidationError struct {
	Section string
	Err     error
}

func (e *ValidationError) Error() string {
	return "config: " + e.Section + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CommitTypeRegistry merges the built-in commit types with `commit_types`
// overrides and returns a conventional.Registry ready for parsing (§4.1).
func (c *Config) CommitTypeRegistry() *conventional.Registry {
	base := conventional.DefaultTypes()
	byName := make(map[string]conventional.CommitType, len(base))
	order := make([]string, 0, len(base))
	for _, t := range base {
		byName[t.Name] = t
		order = append(order, t.Name)
	}

	for name, override := range c.CommitTypes {
		existing, known := byName[name]
		if !known {
			order = append(order, name)
		}
		existing.Name = name
		if override.ChangelogTitle != "" {
			existing.ChangelogTitle = override.ChangelogTitle
		}
		existing.OmitFromChangelog = override.OmitFromChangelog
		existing.BumpMinor = override.BumpMinor
		existing.BumpPatch = override.BumpPatch
		byName[name] = existing
	}

	types := make([]conventional.CommitType, 0, len(order))
	for _, name := range order {
		types = append(types, byName[name])
	}
	return conventional.NewRegistry(types)
}

// MonorepoPackages converts the `packages.<name>` config table into the
// monorepo.Package list C6 operates on.
func (c *Config) MonorepoPackages() []monorepo.Package {
	out := make([]monorepo.Package, 0, len(c.Packages))
	for name, p := range c.Packages {
		out = append(out, monorepo.Package{
			Name:          name,
			Path:          p.Path,
			Include:       p.Include,
			Ignore:        p.Ignore,
			ChangelogPath: p.ChangelogPath,
			PublicAPI:     p.PublicAPI,
			PreHooks:      p.PreHooks,
			PostHooks:     p.PostHooks,
			BumpProfiles:  convertProfiles(p.BumpProfiles),
		})
	}
	return out
}

func convertProfiles(in map[string]HookProfileConfig) map[string]monorepo.HookProfile {
	if in == nil {
		return nil
	}
	out := make(map[string]monorepo.HookProfile, len(in))
	for name, p := range in {
		out[name] = monorepo.HookProfile{Pre: p.Pre, Post: p.Post}
	}
	return out
}

// ChangelogAuthors builds the author resolver from `changelog.authors`.
func (c *Config) ChangelogAuthors() *changelog.AuthorResolver {
	authors := make([]changelog.Author, 0, len(c.Changelog.Authors))
	for _, a := range c.Changelog.Authors {
		authors = append(authors, changelog.Author{Signature: a.Signature, Username: a.Username})
	}
	return changelog.NewAuthorResolver(authors)
}
