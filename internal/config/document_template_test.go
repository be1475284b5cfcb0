package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocumentTemplate_MissingFileUsesDefaults(t *testing.T) {
	tmpl, err := LoadDocumentTemplate(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Institution != DefaultDocumentTemplate().Institution {
		t.Errorf("Institution = %q, want default", tmpl.Institution)
	}
}

func TestLoadDocumentTemplate_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	body := "institution: Sri Example Engineering College\n" +
		"instructions:\n  - Answer all questions.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadDocumentTemplate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Institution != "Sri Example Engineering College" {
		t.Errorf("Institution = %q", tmpl.Institution)
	}
	if len(tmpl.Instructions) != 1 {
		t.Errorf("Instructions = %v, want the single override", tmpl.Instructions)
	}
	if tmpl.Declaration == "" {
		t.Error("Declaration should keep its default")
	}
}

func TestLoadDocumentTemplate_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("institution: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDocumentTemplate(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
