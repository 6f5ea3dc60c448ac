//go:build linux

package sandbox

import (
	"errors"
	"fmt"

	"github.com/landlock-lsm/go-landlock/landlock"
	"github.com/neoclaw-ai/filetransformer/internal/config"
	"golang.org/x/sys/unix"
)

// IsSandboxSupported reports whether Landlock is available on Linux.
func IsSandboxSupported() bool {
	abi, _, errno := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		0,
		0,
		uintptr(unix.LANDLOCK_CREATE_RULESET_VERSION),
	)
	return errno == 0 && abi >= 1
}

func restrictProcessImpl(mode string, roots []string) error {
	if mode == config.SecurityModeStrict && !IsSandboxSupported() {
		return errors.New("landlock is unavailable on this host")
	}

	rules := []landlock.Rule{
		landlock.RWDirs(roots...).IgnoreIfMissing(),
		landlock.RWDirs("/dev"),
	}
	if mode == config.SecurityModeStrict {
		rules = append(rules, strictLinuxReadRules()...)
	} else {
		rules = append(rules, landlock.RODirs("/"))
	}

	if err := landlock.V6.BestEffort().RestrictPaths(rules...); err != nil {
		return fmt.Errorf("restrict process with landlock: %w", err)
	}
	return nil
}

func strictLinuxReadRules() []landlock.Rule {
	return []landlock.Rule{
		landlock.RODirs(
			"/bin",
			"/sbin",
			"/usr",
			"/lib",
			"/lib64",
			"/etc",
			"/proc",
			"/sys",
		).IgnoreIfMissing(),
	}
}
