package tmplconfig

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/templatize/templatize/internal/engine"
)

// Load reads and parses the ".templatize.json" file at sourceRoot. It
// returns a fully decoded and validated *Config on success.
//
// Load fails fast, returning a *engine.TemplatizeError with
// SkipReasonParseFailure wrapping the underlying cause, when:
//   - the config file does not exist at sourceRoot (ConfigMissing)
//   - the file is not valid JSON (ConfigInvalid)
//   - the decoded document fails schema validation (ConfigInvalid): an
//     engine.ConfigValidationErrors value is returned wrapped by the
//     TemplatizeError, naming every offending key path
func Load(sourceRoot string) (*Config, error) {
	path := filepath.Join(sourceRoot, DefaultConfigFileName)
	return LoadFile(path)
}

// LoadFile reads and parses the config file at the given path directly,
// bypassing the DefaultConfigFileName convention. Most callers should use
// Load.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, engine.NewFileError(engine.SkipReasonParseFailure, path, "config file not found", err)
		}
		return nil, engine.NewFileError(engine.SkipReasonFileRead, path, "reading config file", err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses config data already read into memory. name is used only
// in error messages and log output.
func LoadBytes(data []byte, name string) (*Config, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, engine.NewFileError(engine.SkipReasonParseFailure, name, "parsing config JSON", err)
	}

	if errs := validateRaw(raw); len(errs) > 0 {
		slog.Warn("templatize config failed validation", "source", name, "errors", len(errs))
		return nil, engine.NewFileError(engine.SkipReasonParseFailure, name, "validating config schema", errs)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, engine.NewFileError(engine.SkipReasonParseFailure, name, "decoding config into typed schema", err)
	}

	normalize(&cfg)

	slog.Debug("templatize config loaded",
		"source", name,
		"rule_keys", len(cfg.Rules),
	)

	return &cfg, nil
}

// normalize fills in pattern defaults that validateRaw already confirmed are
// either present or acceptably absent -- currently only AllowMultiple's
// implicit default, which AllowsMultiple already handles without mutating
// the Pattern, so normalize is a placeholder for future defaulting and
// presently a no-op. It exists so callers have one stable hook instead of
// scattering "fill in defaults" logic across Load's call sites.
func normalize(cfg *Config) {
	_ = cfg
}

// ConfigFileExists reports whether a .templatize.json file exists at
// sourceRoot, without reading or parsing it.
func ConfigFileExists(sourceRoot string) bool {
	_, err := os.Stat(filepath.Join(sourceRoot, DefaultConfigFileName))
	return err == nil
}
