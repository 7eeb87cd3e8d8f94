package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// Git backends selectable with --backend.
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// Tool describes the command a configuration is loaded for.
type Tool struct {
	// Name is the command name; it also names the config file and log files.
	Name string
	// EnvPrefix is the prefix of environment variable overrides.
	EnvPrefix string
	// Extensions are the default file extensions matched, if the tool matches files.
	Extensions []string
	// GitBackend enables the --backend and --rate settings.
	GitBackend bool
}

// Settings is the fully merged configuration of one invocation.
type Settings struct {
	sweep.Options `mapstructure:",squash"`

	Verbose      bool               `mapstructure:"verbose"`
	OutputFormat sweep.OutputFormat `mapstructure:"output-format"`
	// LogPath is the requested log target; empty disables the log file.
	// A directory receives a generated file name.
	LogPath    string   `mapstructure:"log"`
	AssumeYes  bool     `mapstructure:"yes"`
	NoPrompt   bool     `mapstructure:"no-prompt"`
	NoTUI      bool     `mapstructure:"no-tui"`
	Extensions []string `mapstructure:"ext"`
	Backend    string   `mapstructure:"backend"`
	Rate       float64  `mapstructure:"rate"`

	ConfigFilePath string `mapstructure:"-"`
	ProfileName    string `mapstructure:"-"`
}

// RegisterFlags defines every flag LoadAndValidate binds.
func RegisterFlags(flags *pflag.FlagSet, tool Tool) {
	flags.String("config", "", fmt.Sprintf("Config file (default searches ./%s.yaml and $XDG_CONFIG_HOME/%s/)", tool.Name, tool.Name))
	flags.String("profile", "", "Configuration profile to apply from the config file")
	flags.BoolP("verbose", "v", sweep.DefaultVerbose, "Enable debug logging on stderr")
	flags.StringP("path", "p", "", "Directory to scan (default: current directory)")
	flags.IntP("concurrency", "j", sweep.DefaultConcurrency, "Number of workers (0 = number of CPUs)")
	flags.Int("max-depth", sweep.DefaultMaxDepth, "Maximum directory depth to descend")
	flags.String("output-format", string(sweep.DefaultOutputFormat), "Report format printed after the run: text, json, yaml")
	flags.StringP("log", "l", "", "Save results to LOG_FILE; a directory receives a generated file name")
	flags.Bool("no-tui", false, "Print plain result lines instead of the live progress view")

	if len(tool.Extensions) > 0 {
		flags.StringSlice("ext", tool.Extensions, "File extensions to check")
		flags.BoolP("yes", "y", false, "Answer yes to the post-run prompt")
		flags.Bool("no-prompt", false, "Do not offer the post-run action")
	}
	if tool.GitBackend {
		flags.String("backend", BackendExec, "Git backend: exec (git binary) or gogit (built-in)")
		flags.Float64("rate", 0, "Maximum pulls per second (0 = unlimited)")
	}
}

// flagKeys are the config keys bound to flags of the same name.
var flagKeys = []string{
	"verbose", "path", "concurrency", "max-depth", "output-format", "log",
	"ext", "yes", "no-prompt", "no-tui", "backend", "rate",
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged result and sets up the logger.
func LoadAndValidate(tool Tool, cfgFile, profileName string, flags *pflag.FlagSet) (Settings, *slog.Logger, error) {
	var settings Settings
	v := viper.New()

	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	setDefaults(v, tool)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(tool.Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, tool.Name))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", tool.Name)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return settings, tempLogger, fmt.Errorf("%w: error reading config file '%s': %w", sweep.ErrConfigValidation, configFileUsed, err)
		}
	} else {
		settings.ConfigFilePath = v.ConfigFileUsed()
	}

	// --- Apply Profile ---
	settings.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("%w: profile '%s' not found in config file '%s'", sweep.ErrConfigValidation, profileName, configPath)
			tempLogger.Error(err.Error())
			return settings, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			return settings, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(tool.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	for _, key := range flagKeys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return settings, tempLogger, fmt.Errorf("error binding flag '--%s': %w", key, err)
		}
	}

	if err := v.Unmarshal(&settings); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return settings, tempLogger, fmt.Errorf("%w: error unmarshalling configuration: %w", sweep.ErrConfigValidation, err)
	}

	// Explicit flags always win for booleans.
	if flags.Changed("verbose") {
		settings.Verbose, _ = flags.GetBool("verbose")
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelWarn
	if settings.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	settings.Logger = logHandler

	if err := validateAndDerive(&settings, tool, logger); err != nil {
		return settings, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", settings.ConfigFilePath),
		slog.String("profile", settings.ProfileName),
		slog.String("root", settings.Root),
		slog.String("logLevel", logLevel.String()),
	)
	return settings, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper, tool Tool) {
	v.SetDefault("verbose", sweep.DefaultVerbose)
	v.SetDefault("path", "")
	v.SetDefault("concurrency", sweep.DefaultConcurrency)
	v.SetDefault("max-depth", sweep.DefaultMaxDepth)
	v.SetDefault("output-format", string(sweep.DefaultOutputFormat))
	v.SetDefault("log", "")
	v.SetDefault("ext", tool.Extensions)
	v.SetDefault("yes", false)
	v.SetDefault("no-prompt", false)
	v.SetDefault("no-tui", false)
	v.SetDefault("backend", BackendExec)
	v.SetDefault("rate", 0.0)
}

// validateAndDerive performs semantic validation and resolves the root path.
// It wraps errors with sweep.ErrConfigValidation.
func validateAndDerive(s *Settings, tool Tool, logger *slog.Logger) error {
	fail := func(key string, format string, args ...any) error {
		err := fmt.Errorf("%w: "+format, append([]any{sweep.ErrConfigValidation}, args...)...)
		logger.Error(err.Error(), slog.String("key", key))
		return err
	}

	// === Root ===
	root := s.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fail("path", "cannot determine working directory: %w", err)
		}
		root = wd
	}
	root, err := ExpandHome(root)
	if err != nil {
		return fail("path", "cannot expand '%s': %w", s.Root, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fail("path", "cannot resolve absolute path '%s': %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fail("path", "path '%s' does not exist", absRoot)
		}
		return fail("path", "cannot access path '%s': %w", absRoot, err)
	}
	if !info.IsDir() {
		return fail("path", "path '%s' is not a directory", absRoot)
	}
	s.Root = absRoot

	// === Enums ===
	allowedOutputFormat := []sweep.OutputFormat{sweep.OutputFormatText, sweep.OutputFormatJSON, sweep.OutputFormatYAML}
	if !slices.Contains(allowedOutputFormat, s.OutputFormat) {
		return fail("output-format", "invalid value '%s' for key 'output-format'. Allowed: %v", s.OutputFormat, allowedOutputFormat)
	}
	if tool.GitBackend {
		allowedBackends := []string{BackendExec, BackendGoGit}
		if !slices.Contains(allowedBackends, s.Backend) {
			return fail("backend", "invalid value '%s' for key 'backend'. Allowed: %v", s.Backend, allowedBackends)
		}
	}

	// === Numeric ranges ===
	if s.Concurrency < 0 {
		return fail("concurrency", "invalid value '%d' for key 'concurrency'. Must be >= 0", s.Concurrency)
	}
	if s.MaxDepth < 0 {
		return fail("max-depth", "invalid value '%d' for key 'max-depth'. Must be >= 0", s.MaxDepth)
	}
	if s.Rate < 0 {
		return fail("rate", "invalid value '%g' for key 'rate'. Must be >= 0", s.Rate)
	}

	// === Extensions ===
	if len(tool.Extensions) > 0 {
		exts := make([]string, 0, len(s.Extensions))
		for _, e := range s.Extensions {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		if len(exts) == 0 {
			return fail("ext", "at least one file extension is required")
		}
		s.Extensions = exts
	}

	if s.LogPath != "" {
		expanded, err := ExpandHome(s.LogPath)
		if err != nil {
			return fail("log", "cannot expand '%s': %w", s.LogPath, err)
		}
		s.LogPath = expanded
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// LogFileName returns "<tool>_<YYYYMMDDhhmmss><mmm>.log" for now.
func LogFileName(tool string, now time.Time) string {
	return fmt.Sprintf("%s_%s%03d.log", tool, now.Format("20060102150405"), now.Nanosecond()/int(time.Millisecond))
}

// ResolveLogPath maps the --log value to a file path. An empty target
// disables the log; an existing directory receives a generated name.
func ResolveLogPath(target, tool string, now time.Time) string {
	if target == "" {
		return ""
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, LogFileName(tool, now))
	}
	return target
}
