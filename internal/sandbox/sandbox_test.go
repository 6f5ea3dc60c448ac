package sandbox

import (
	"testing"

	"github.com/neoclaw-ai/filetransformer/internal/config"
)

func TestRestrictProcessDangerIsNoop(t *testing.T) {
	if err := RestrictProcess(config.SecurityModeDanger, nil); err != nil {
		t.Fatalf("expected danger mode to skip restriction, got %v", err)
	}
}

func TestRestrictProcessRequiresRoots(t *testing.T) {
	if err := RestrictProcess(config.SecurityModeStandard, []string{" ", ""}); err == nil {
		t.Fatalf("expected error without writable roots")
	}
}

func TestIsAlreadySandboxed(t *testing.T) {
	t.Setenv(sandboxedEnvVar, "1")
	if !IsAlreadySandboxed() {
		t.Fatalf("expected sandboxed env to be detected")
	}
	t.Setenv(sandboxedEnvVar, "")
	if IsAlreadySandboxed() {
		t.Fatalf("expected empty env to mean not sandboxed")
	}
}
