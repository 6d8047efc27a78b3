package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestIsPomFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"lib-1.0.0.pom", true},
		{"some/dir/pom.xml", true},
		{"notes.txt", false},
		{"pom.xml.bak", false},
		{"archive.pomx", false},
	}
	for _, tt := range tests {
		if got := isPomFile(tt.path); got != tt.want {
			t.Errorf("isPomFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadDescriptorsSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	valid := `<project><groupId>org.acme</groupId><artifactId>lib_2.13</artifactId><version>1.0.0</version></project>`
	files := map[string]string{
		"lib-1.0.0.pom":    valid,
		"sub/pom.xml":      valid,
		"broken-2.0.0.pom": "not xml <<<",
		"ignored.txt":      "irrelevant",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := New(io.Discard, LogInfo)
	descriptors := c.loadDescriptors(dir)
	if len(descriptors) != 2 {
		t.Fatalf("loadDescriptors() = %d descriptors, want 2", len(descriptors))
	}
	for _, d := range descriptors {
		if d.ArtifactName != "lib" || d.Platform != "2.13" {
			t.Errorf("descriptor = %+v", d)
		}
		if d.Created.IsZero() {
			t.Error("descriptor Created not set from file mod time")
		}
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}
