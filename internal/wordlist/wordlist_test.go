package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadVerbs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.txt")
	content := "# regular verbs\nhablar\n\n  Comer \nhablar\nvivir\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	verbs, err := LoadVerbs(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(verbs, ",") != "hablar,comer,vivir" {
		t.Fatalf("unexpected verbs: %v", verbs)
	}
}

func TestLoadVerbsRejectsNonInfinitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.txt")
	if err := os.WriteFile(path, []byte("hablar\nmesa\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadVerbs(path); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
}

func TestLoadVerbsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.txt")
	if err := os.WriteFile(path, []byte("\n# nothing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadVerbs(path); err == nil {
		t.Fatalf("expected empty list error")
	}
}

func TestDefaultList(t *testing.T) {
	verbs := Default()
	if len(verbs) < 30 {
		t.Fatalf("expected a populated default list, got %d", len(verbs))
	}
	for _, v := range verbs {
		if !IsRegularInfinitive(v) {
			t.Fatalf("default list contains %q", v)
		}
	}
}
