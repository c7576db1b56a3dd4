// Package platform describes the host a build runs on.
package platform

import (
	"runtime"
	"strconv"
)

// Windows is the OS name that switches the composer to MSBuild-style arguments.
const Windows = "windows"

// Platform is the subset of host facts that shape a build.
type Platform struct {
	// OS is a GOOS value such as "linux", "darwin" or "windows".
	OS string
	// PtrBits is the native pointer width in bits.
	PtrBits int
	// Machine is the hardware name reported by the kernel (e.g. "x86_64").
	Machine string
}

// Host returns the platform of the running process.
func Host() Platform {
	return Platform{
		OS:      runtime.GOOS,
		PtrBits: strconv.IntSize,
		Machine: machine(),
	}
}

// IsWindows reports whether p targets Windows.
func (p Platform) IsWindows() bool { return p.OS == Windows }

// Is64Bit reports whether pointers are wider than 32 bits.
func (p Platform) Is64Bit() bool { return p.PtrBits > 32 }

// Tag is a short identifier used in build directory names, e.g. "linux-amd64".
func (p Platform) Tag() string {
	arch := runtime.GOARCH
	if p.OS != runtime.GOOS {
		arch = "x" + strconv.Itoa(p.PtrBits)
	}
	return p.OS + "-" + arch
}

func (p Platform) String() string {
	if p.Machine == "" {
		return p.OS + "/" + strconv.Itoa(p.PtrBits) + "bit"
	}
	return p.OS + "/" + p.Machine
}
