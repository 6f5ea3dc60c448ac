//go:build darwin

package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/neoclaw-ai/filetransformer/internal/config"
)

// IsSandboxSupported reports whether sandbox-exec is available on Darwin.
func IsSandboxSupported() bool {
	_, err := exec.LookPath("sandbox-exec")
	return err == nil
}

func restrictProcessImpl(mode string, roots []string) error {
	if IsAlreadySandboxed() {
		return nil
	}
	// Go test binaries are named "*.test"; avoid replacing the test process.
	if strings.HasSuffix(filepath.Base(os.Args[0]), ".test") {
		return nil
	}
	if !IsSandboxSupported() {
		if mode == config.SecurityModeStrict {
			return fmt.Errorf("sandbox-exec is unavailable on this host")
		}
		return nil
	}

	profile := darwinProfile(mode, roots)
	if profile == "" {
		return fmt.Errorf("unsupported security mode %q", mode)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolve executable symlinks: %w", err)
	}

	args := append([]string{
		"sandbox-exec",
		"-p",
		profile,
		execPath,
	}, os.Args[1:]...)
	env := append(os.Environ(), sandboxedEnvVar+"=1")
	if err := syscall.Exec("/usr/bin/sandbox-exec", args, env); err != nil {
		return fmt.Errorf("exec sandbox-exec: %w", err)
	}
	return nil
}

// darwinProfile builds the SBPL profile that limits writes to roots.
func darwinProfile(mode string, roots []string) string {
	var writeRules strings.Builder
	for _, root := range roots {
		fmt.Fprintf(&writeRules, "(allow file-write* (subpath %q))\n", root)
	}
	writeRules.WriteString(`(allow file-write* (literal "/dev/null"))`)

	switch mode {
	case config.SecurityModeStrict:
		readRoots := append([]string{
			"/usr",
			"/bin",
			"/sbin",
			"/System",
			"/private/etc",
			"/private/var/db",
			"/dev",
		}, roots...)
		var profile strings.Builder
		profile.WriteString("(version 1)\n")
		profile.WriteString("(deny default)\n")
		profile.WriteString("(allow process*)\n")
		profile.WriteString("(allow sysctl-read)\n")
		profile.WriteString("(allow mach-lookup)\n")
		for _, root := range readRoots {
			fmt.Fprintf(&profile, "(allow file-read* (subpath %q))\n", root)
		}
		profile.WriteString(writeRules.String())
		return profile.String()
	case config.SecurityModeStandard:
		return strings.Join([]string{
			"(version 1)",
			"(allow default)",
			"(deny file-write*)",
			writeRules.String(),
		}, "\n")
	default:
		return ""
	}
}
