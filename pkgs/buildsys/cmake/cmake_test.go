package cmake

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/process"
	"github.com/vocaltractlab/vtlbuild/internal/process/mocks"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys"
)

func TestConfigureCreatesBuildDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockRunner(ctrl)

	buildDir := filepath.Join(t.TempDir(), "build", "temp.linux-amd64")
	e := env.FromList([]string{"CXXFLAGS=-DVERSION_INFO=1"})

	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd process.Command) (process.Result, error) {
		if cmd.Name != "cmake" {
			t.Errorf("Name = %q, want cmake", cmd.Name)
		}
		if cmd.Dir != buildDir {
			t.Errorf("Dir = %q, want %q", cmd.Dir, buildDir)
		}
		if !slices.Equal(cmd.Args, []string{"/src", "-DX=1"}) {
			t.Errorf("Args = %v", cmd.Args)
		}
		if !slices.Contains(cmd.Env, "CXXFLAGS=-DVERSION_INFO=1") {
			t.Errorf("Env = %v, missing CXXFLAGS", cmd.Env)
		}
		return process.Result{}, nil
	})

	c := New(r, buildDir, e).Output(io.Discard, io.Discard)
	if err := c.Configure(context.Background(), "/src", "-DX=1"); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if fi, err := os.Stat(buildDir); err != nil || !fi.IsDir() {
		t.Fatalf("build dir not created: %v", err)
	}
}

func TestConfigureFailureIsStepError(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(process.Result{
		ExitCode: 1,
		Stderr:   []byte("CMake Error: The source directory does not exist.\n"),
	}, nil)

	err := New(r, t.TempDir(), env.Env{}).Configure(context.Background(), "/missing")

	var se *buildsys.StepError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StepError", err)
	}
	if se.Step != buildsys.StepConfigure || se.ExitCode != 1 {
		t.Errorf("StepError = %+v", se)
	}
	if !strings.Contains(se.Stderr, "does not exist") {
		t.Errorf("Stderr = %q", se.Stderr)
	}
	if !errors.Is(err, buildsys.ErrBuildStepFailed) {
		t.Error("errors.Is(err, ErrBuildStepFailed) = false")
	}
}

func TestBuildStartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockRunner(ctrl)
	startErr := errors.New("exec: not found")
	r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(process.Result{ExitCode: -1}, startErr)

	err := New(r, t.TempDir(), env.Env{}).Binary("/opt/cmake/bin/cmake").Build(context.Background(), "--build", ".")
	if !errors.Is(err, startErr) {
		t.Fatalf("err = %v, want wrapping %v", err, startErr)
	}
	if errors.Is(err, buildsys.ErrBuildStepFailed) {
		t.Error("a step that never started must not be a StepError")
	}
}

func TestBinaryAndOutputDir(t *testing.T) {
	c := New(nil, "build", env.Env{})
	if c.bin != DefaultBin {
		t.Errorf("bin = %q, want %q", c.bin, DefaultBin)
	}
	c.Binary("")
	if c.bin != DefaultBin {
		t.Errorf("empty Binary changed bin to %q", c.bin)
	}
	c.Binary("cmake3")
	if c.bin != "cmake3" {
		t.Errorf("bin = %q, want %q", c.bin, "cmake3")
	}
	if got := c.OutputDir(); got != "build" {
		t.Errorf("OutputDir = %q, want %q", got, "build")
	}
}
