package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFiles are the project file names looked up in the project directory, in order.
var DefaultFiles = []string{"vtlbuild.yaml", "vtlbuild.yml", "vtlbuild.toml"}

// File is the project configuration stored next to the sources.
type File struct {
	Name      string            `yaml:"name" toml:"name"`
	Version   string            `yaml:"version" toml:"version"`
	Source    string            `yaml:"source" toml:"source"`
	BuildBase string            `yaml:"build_base" toml:"build_base"`
	Python    string            `yaml:"python" toml:"python"`
	CMake     string            `yaml:"cmake" toml:"cmake"`
	Generator string            `yaml:"generator" toml:"generator"`
	Jobs      int               `yaml:"jobs" toml:"jobs"`
	ExtSuffix string            `yaml:"ext_suffix" toml:"ext_suffix"`
	Defines   map[string]string `yaml:"defines" toml:"defines"`
	Env       map[string]string `yaml:"env" toml:"env"`

	// dir is the directory of the loaded file. Relative paths in the file
	// are taken relative to it.
	dir string
}

// Find returns the first of DefaultFiles present in dir.
func Find(dir string) (string, bool) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadFile reads a project file. The format follows the extension:
// .toml is TOML, anything else YAML. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config file directory")
	}
	f := File{dir: dir}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		meta, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, zerr.With(zerr.New("unknown config key"), "key", undecoded[0].String())
		}
		return &f, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}
	return &f, nil
}
