package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func withConfigFileFlag(t *testing.T, path string) {
	t.Helper()
	cfgFile = path
	viper.Reset()
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})
}

func TestSaveDefaultConfigWritesExampleTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.yaml")
	withConfigFileFlag(t, path)

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("save default config: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"# tempoutils configuration",
		"tempo:",
		`base_url: "https://api.tempo.io/4"`,
		"JIRA_USER_ACCOUNT_ID",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected template to contain %q, got:\n%s", want, text)
		}
	}
}

func TestSaveDefaultConfigKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.yaml")
	original := "tempo:\n  account_id: \"abc123\"\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("seed existing config: %v", err)
	}
	withConfigFileFlag(t, path)

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("save default config: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("existing config was overwritten:\n%s", content)
	}
}
