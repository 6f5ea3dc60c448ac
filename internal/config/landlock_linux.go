//go:build linux

package config

import (
	"errors"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/store"
	"golang.org/x/sys/unix"
)

const lsmListPath = "/sys/kernel/security/lsm"

// isLandlockAvailable probes the kernel for a usable Landlock ABI.
func isLandlockAvailable() bool {
	abi, _, errno := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		0,
		0,
		uintptr(unix.LANDLOCK_CREATE_RULESET_VERSION),
	)
	if errno == 0 && abi >= 1 {
		return true
	}
	if errors.Is(errno, unix.ENOSYS) || errors.Is(errno, unix.EOPNOTSUPP) {
		return false
	}

	// The syscall probe can be filtered by seccomp; fall back to the LSM list.
	return lsmListContains(lsmListPath, "landlock")
}

func lsmListContains(path, name string) bool {
	raw, err := store.ReadFile(path)
	if err != nil {
		return false
	}
	for _, item := range strings.Split(strings.TrimSpace(raw), ",") {
		if strings.TrimSpace(item) == name {
			return true
		}
	}
	return false
}
