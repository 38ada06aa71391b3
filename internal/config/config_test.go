package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SCOUT_TEST_TOKEN", "tok-123")

	path := writeConfig(t, `
version: "1"
modules:
  channel.discord:
    token: ${SCOUT_TEST_TOKEN}
    guild_id: ${SCOUT_TEST_GUILD:-guild-default}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node, ok := cfg.Modules["channel.discord"]
	if !ok {
		t.Fatal("channel.discord config missing")
	}

	var decoded struct {
		Token   string `yaml:"token"`
		GuildID string `yaml:"guild_id"`
	}
	if err := node.Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Token != "tok-123" {
		t.Errorf("token = %q, want tok-123", decoded.Token)
	}
	if decoded.GuildID != "guild-default" {
		t.Errorf("guild_id = %q, want guild-default", decoded.GuildID)
	}
}

func TestLoad_UnresolvedVarFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
version: "1"
modules:
  provider.openai:
    api_key: ${SCOUT_DEFINITELY_UNSET_VAR}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "SCOUT_DEFINITELY_UNSET_VAR") {
		t.Errorf("error should name the missing variable, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing version",
			cfg:     Config{},
			wantErr: "version field is required",
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: "2"},
			wantErr: "unsupported version",
		},
		{
			name:    "no modules",
			cfg:     Config{Version: "1"},
			wantErr: "at least one module",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(&tc.cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestResolve_SortedIDs(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
version: "1"
modules:
  provider.openai: {}
  channel.discord: {}
  prefs.sqlite: {}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	ids := Resolve(cfg)
	want := []string{"channel.discord", "prefs.sqlite", "provider.openai"}
	if len(ids) != len(want) {
		t.Fatalf("Resolve returned %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
