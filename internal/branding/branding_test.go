package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if CLIName() != "seesync" {
		t.Errorf("CLIName() = %q, want %q", CLIName(), "seesync")
	}
	if DefaultRoot() != "http://127.0.0.1:6543" {
		t.Errorf("DefaultRoot() = %q, want %q", DefaultRoot(), "http://127.0.0.1:6543")
	}
	if HomeDir() != ".seesync" {
		t.Errorf("HomeDir() = %q, want %q", HomeDir(), ".seesync")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"root", "SEE_ROOT"},
		{"user", "SEE_USER"},
		{"PWD", "SEE_PWD"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
