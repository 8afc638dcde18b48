package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/yunfengsa/stylelint-nopx/config"
	"github.com/yunfengsa/stylelint-nopx/lint"
	"github.com/yunfengsa/stylelint-nopx/lintcache"
	"github.com/yunfengsa/stylelint-nopx/log"
)

// extensions lists the style sheet file types searched for in directories.
var extensions = map[string]bool{
	".css":  true,
	".less": true,
	".scss": true,
	".wxss": true,
}

// skipDirs lists directories that are never searched.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"ignore":           "ignore",
	"ignore-functions": "ignore_functions",
	"severity":         "severity",
	"format":           "format",
	"cache":            "cache",
	"cache-location":   "cache_location",
	"log-level":        "log_level",
}

// rootOptions holds the values of the command line flags.
type rootOptions struct {
	configFile      string
	ignore          []string
	ignoreFunctions []string
	severity        string
	format          string
	cache           bool
	cacheLocation   string
	logLevel        string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "nopx [flags] <file|dir>...",
		Short: "Report px lengths in style sheets",
		Long: `nopx reports px lengths in declarations and at-rules and suggests rpx
instead (rule ` + lint.RuleName + `).

Zero lengths are always allowed and 1px lengths are allowed by default.
Settings are read from the --config file, then NOPX_* environment variables,
then flags.`,
		Example: `  nopx src/
  nopx --ignore "border 1px" --ignore font app.wxss
  nopx --ignore-functions calc --format json styles/`,
		Version:       getVersionString(),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (YAML, JSON or TOML)")
	flags.StringArrayVar(&opts.ignore, "ignore", nil, `property fragment to exempt, or "<fragment> 1px" to exempt only 1px (repeatable)`)
	flags.StringArrayVar(&opts.ignoreFunctions, "ignore-functions", nil, "function whose arguments are not checked (repeatable)")
	flags.StringVar(&opts.severity, "severity", "", "severity of reported warnings: error or warning")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text or json")
	flags.BoolVar(&opts.cache, "cache", false, "store results and only lint changed files")
	flags.StringVar(&opts.cacheLocation, "cache-location", "", "path of the cache file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	return cmd
}

// overrides returns the configuration keys of the flags set on cmd.
func (o *rootOptions) overrides(cmd *cobra.Command) map[string]any {
	values := map[string]any{
		"ignore":           o.ignore,
		"ignore_functions": o.ignoreFunctions,
		"severity":         o.severity,
		"format":           o.format,
		"cache":            o.cache,
		"cache_location":   o.cacheLocation,
		"log_level":        o.logLevel,
	}

	m := make(map[string]any)
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			m[key] = values[key]
		}
	}
	return m
}

// runLint lints every file named by args and writes the results.
func runLint(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := config.Load(opts.configFile, opts.overrides(cmd))
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	// Log output goes to stderr so that results on stdout stay parseable.
	if err := log.Configure(cmd.ErrOrStderr(), cfg.Env, cfg.LogLevel); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	logger := log.GetLogger()

	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	logger.Debug(map[string]any{"files": len(files)}, "collected style sheets")

	var cache *lintcache.Cache
	if cfg.Cache {
		if cache, err = lintcache.Open(cfg.CacheLocation); err != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("open cache %s: %w", cfg.CacheLocation, err)}
		}
		defer func() { _ = cache.Close() }()
	}

	linter := lint.New(lint.Options{
		Enabled:   cfg.Enabled,
		Severity:  cfg.Severity,
		Secondary: cfg.Options(),
		CacheSize: cfg.CacheSize,
		Logger:    logger,
	})

	var errs error
	results := make([]*lint.Result, 0, len(files))
	for _, path := range files {
		result, err := lintFile(linter, cache, path)
		if err != nil {
			logger.Error(map[string]any{"source": path, "error": err.Error()}, "lint failed")
			errs = multierr.Append(errs, err)
			continue
		}
		results = append(results, result)
	}

	if err := formatters[cfg.Format](cmd.OutOrStdout(), results); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("write results: %w", err))
	}

	if errs != nil {
		return &ExitError{Code: ExitFailure, Err: errs}
	}
	for _, r := range results {
		if r.HasErrors() {
			return &ExitError{Code: ExitProblems}
		}
	}
	return nil
}

// lintFile lints a single file, reusing cached results when the file and the
// linter options are unchanged.
func lintFile(linter *lint.Linter, cache *lintcache.Cache, path string) (*lint.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if cache != nil {
		if warnings, ok := cache.Get(key, content, linter.Fingerprint()); ok {
			log.Debug(map[string]any{"source": path}, "using cached result")
			return &lint.Result{Source: path, Warnings: warnings}, nil
		}
	}

	result, err := linter.LintSource(path, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(key, content, linter.Fingerprint(), result.Warnings); err != nil {
			log.Warn(map[string]any{"source": path, "error": err.Error()}, "could not cache result")
		}
	}
	return result, nil
}

// collectFiles expands directories in args into the style sheets they
// contain. Files named explicitly are always included.
func collectFiles(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	var errs error
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if extensions[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		errs = multierr.Append(errs, err)
	}
	return files, errs
}
