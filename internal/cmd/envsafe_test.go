package cmd

import "testing"

func TestNewEnvSafeCmd(t *testing.T) {
	cmd := NewEnvSafeCmd()

	if cmd.Name != "env-safe" {
		t.Errorf("Expected command name 'env-safe', got '%s'", cmd.Name)
	}

	want := map[string]bool{"list": false, "check": false, "count": false, "validate": false}
	for _, sub := range cmd.Commands {
		if _, ok := want[sub.Name]; ok {
			want[sub.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand '%s'", name)
		}
	}
}
