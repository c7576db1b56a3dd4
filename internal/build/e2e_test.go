package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vocaltractlab/vtlbuild/internal/config"
	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/platform"
	"github.com/vocaltractlab/vtlbuild/internal/process"
)

// TestE2E_BuildProject runs the real cmake against testdata/project twice
// and checks that exactly one extension lands at the expected path.
func TestE2E_BuildProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("e2e project is not set up for MSVC")
	}
	if _, err := exec.LookPath("cmake"); err != nil {
		t.Skip("cmake not found in PATH")
	}
	if _, err := exec.LookPath("c++"); err != nil {
		t.Skip("c++ compiler not found in PATH")
	}

	src, err := filepath.Abs(filepath.Join("testdata", "project"))
	if err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	cfg, err := config.Resolve(nil, config.Options{
		Name:      "vtlpkg.vtl",
		Version:   "0.0.2",
		Source:    src,
		BuildBase: filepath.Join(root, "build"),
		Jobs:      2,
	}, platform.Host(), env.FromOS())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	b := NewBuilder(process.NewExecRunner(zerolog.Nop()), zerolog.Nop())
	if !testing.Verbose() {
		b.Output(nil, nil)
	}
	want := filepath.Join(cfg.LibDir, "vtlpkg", "vtl"+cfg.Suffix)
	// The second run relinks the library and must replace the placed one.
	for run := 1; run <= 2; run++ {
		res, err := b.Build(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Build #%d: %+v", run, err)
		}
		if res.Artifact.Path != want {
			t.Errorf("Build #%d: Artifact.Path = %q, want %q", run, res.Artifact.Path, want)
		}
		entries, err := os.ReadDir(filepath.Dir(want))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("Build #%d: extension dir holds %v, want only %s", run, names, filepath.Base(want))
		}
	}
	if _, err := LoadRecord(cfg.BuildTemp); err != nil {
		t.Errorf("LoadRecord: %v", err)
	}
}
