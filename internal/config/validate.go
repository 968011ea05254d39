package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	hxerrors "github.com/KeSHaMI/hexaframe/pkg/errors"
)

// modulePathPattern is a permissive check for Go module paths.
var modulePathPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~\-]*(/[A-Za-z0-9._~\-]+)*$`)

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}
	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning to the validation error.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks cfg. Warnings are returned in the report even when
// validation passes; the error is non-nil only when there are errors.
func Validate(cfg *Config) (*ValidationError, error) {
	report := &ValidationError{}

	if cfg.Module == "" {
		report.Warnf("module: not set and no go.mod found; pass --module to generators")
	} else if !ValidModulePath(cfg.Module) {
		report.Addf("module: %q is not a valid module path", cfg.Module)
	}

	if _, err := ParseGoVersion(cfg.GoVersion); err != nil {
		report.Addf("go: %v", err)
	}

	validHTTP := []string{HTTPChi, HTTPNone}
	if !slices.Contains(validHTTP, cfg.HTTP) {
		report.Addf("http: must be one of %v, got %q", validHTTP, cfg.HTTP)
	}

	validateDir(report, "layout.domain", cfg.Layout.Domain)
	validateDir(report, "layout.usecases", cfg.Layout.UseCases)
	validateDir(report, "layout.ports", cfg.Layout.Ports)
	validateDir(report, "layout.adapters", cfg.Layout.Adapters)

	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, cfg.Output.Format) {
		report.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Output.Format)
	}
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Output.LogLevel) {
		report.Addf("output.log_level: must be one of %v, got %q", validLevels, cfg.Output.LogLevel)
	}

	if report.HasErrors() {
		return report, hxerrors.Validation("config.Validate", report.Error())
	}
	return report, nil
}

func validateDir(report *ValidationError, key, dir string) {
	switch {
	case dir == "":
		report.Addf("%s: required", key)
	case filepath.IsAbs(dir):
		report.Addf("%s: must be relative to the project root, got %q", key, dir)
	case strings.HasPrefix(filepath.Clean(dir), ".."):
		report.Addf("%s: must stay inside the project root, got %q", key, dir)
	}
}

// ValidModulePath reports whether mod looks like a Go module path.
func ValidModulePath(mod string) bool {
	return modulePathPattern.MatchString(mod) && !strings.Contains(mod, "..")
}

// ParseGoVersion parses a go directive such as "1.24" or "1.24.2". The
// version must be at least 1.23, which introduced range-over-func.
func ParseGoVersion(v string) (*semver.Version, error) {
	if v == "" {
		return nil, fmt.Errorf("version is required")
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid go version %q: %w", v, err)
	}
	minimum := semver.MustParse("1.23")
	if parsed.LessThan(minimum) {
		return nil, fmt.Errorf("go version %s is older than the minimum %s", v, minimum.Original())
	}
	return parsed, nil
}
