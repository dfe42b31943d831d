package mapgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/runmap/pkg/cache"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap/connect"
	"github.com/matzehuels/runmap/pkg/runmap/layout"
	"github.com/matzehuels/runmap/pkg/runmap/slot"
)

// Config is the complete tuning of one generation pass.
type Config struct {
	Layout  layout.Settings  `json:"layout" toml:"layout" yaml:"layout"`
	Connect connect.Settings `json:"connect" toml:"connect" yaml:"connect"`
	Slots   slot.Settings    `json:"slots" toml:"slots" yaml:"slots"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Layout:  layout.DefaultSettings(),
		Connect: connect.DefaultSettings(),
		Slots:   slot.DefaultSettings(),
	}
}

// Normalize clamps degenerate values in every section.
func (c Config) Normalize() Config {
	c.Layout = c.Layout.Normalize()
	c.Connect = c.Connect.Normalize()
	c.Slots = c.Slots.Normalize()
	return c
}

// Hash identifies the normalized config. Equal hashes and equal seeds
// produce equal maps.
func (c Config) Hash() string {
	data, err := json.Marshal(c.Normalize())
	if err != nil {
		// Config holds only plain values and text-marshalled node types.
		panic(err)
	}
	return cache.Hash(data)
}

// Config formats accepted by DecodeConfig.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// LoadConfig reads the config file at path. The format is picked from the
// extension; keys the file omits keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	if err := rerrors.ValidateConfigPath(path); err != nil {
		return Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidPath, err, "config %s", path)
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "yml" {
		format = FormatYAML
	}
	cfg, err := DecodeConfig(f, format)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// DecodeConfig decodes a config in the given format on top of DefaultConfig.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	cfg := DefaultConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "read config")
	}

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, rerrors.New(rerrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "decode json")
		}
	default:
		return Config{}, rerrors.New(rerrors.ErrCodeInvalidFormat, "unsupported config format %q", format)
	}
	return cfg, nil
}

// WriteTOML encodes c as TOML, the format `runmap config init` writes.
func WriteTOML(c Config, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeInternal, err, "encode toml")
	}
	return nil
}
