package cli

import (
	"testing"

	"github.com/danieljhkim/phpsweep/internal/action"
)

func TestPrintCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 files"},
		{1, "1 file"},
		{2, "2 files"},
	}

	for _, tt := range tests {
		got := PrintCount(tt.count, "file", "files")
		if got != tt.want {
			t.Errorf("PrintCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := map[string]bool{
		"analyze":  false,
		"execute":  false,
		"rollback": false,
		"archive":  false,
		"version":  false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestAnalyzeCommand_RiskLevelValidation(t *testing.T) {
	for _, level := range []string{"LOW", "medium", "High"} {
		if _, ok := action.ParseRiskLevel(level); !ok {
			t.Errorf("risk level %q should be accepted", level)
		}
	}
	if _, ok := action.ParseRiskLevel("extreme"); ok {
		t.Error("unknown risk level should be rejected")
	}
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")

	SetVersion("1.2.3")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", rootCmd.Version)
	}

	// Empty version keeps the current one.
	SetVersion("")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %q after empty SetVersion", rootCmd.Version)
	}
}
