package build

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/vocaltractlab/vtlbuild/internal/config"
	"github.com/vocaltractlab/vtlbuild/internal/layout"
)

// Build temp layout:
//
//	build/temp.<tag>/
//	  .vtlbuild.yaml   # record of the last successful build
//	  CMakeCache.txt
//	  ...
const RecordFile = ".vtlbuild.yaml"

// Record contains metadata about the last successful build.
type Record struct {
	Name     string    `yaml:"name"`
	Version  string    `yaml:"version"`
	Config   string    `yaml:"config"`
	Platform string    `yaml:"platform"`
	Artifact string    `yaml:"artifact"`
	Size     int64     `yaml:"size"`
	Checksum string    `yaml:"checksum"`
	BuiltAt  time.Time `yaml:"built_at"`
}

func newRecord(cfg config.Build, art layout.Artifact, now time.Time) *Record {
	return &Record{
		Name:     cfg.Name,
		Version:  cfg.Version,
		Config:   cfg.Config(),
		Platform: cfg.Platform.String(),
		Artifact: art.Path,
		Size:     art.Size,
		Checksum: FormatChecksum(art.Checksum),
		BuiltAt:  now.UTC(),
	}
}

// FormatChecksum renders an xxhash64 sum as 16 hex digits.
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// LoadRecord reads the build record from a build temp directory.
func LoadRecord(buildTemp string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(buildTemp, RecordFile))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read build record")
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, zerr.Wrap(err, "failed to parse build record")
	}
	return &rec, nil
}

func saveRecord(path string, rec *Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return zerr.Wrap(err, "failed to encode build record")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build record"), "path", path)
	}
	return nil
}
