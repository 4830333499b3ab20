package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"thumbnailer/internal/cache"
)

func TestEncodeHeader(t *testing.T) {
	data := encodeHeader()
	if len(data) != cache.HeaderSize {
		t.Fatalf("len = %d, want %d", len(data), cache.HeaderSize)
	}
	if err := cache.ValidateHeader(data); err != nil {
		t.Errorf("encoded header does not validate: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	valid := append(encodeHeader(), []byte("payload")...)
	wrongVersion := encodeHeader()
	wrongVersion[3] = 2

	tests := []struct {
		name        string
		existing    []byte
		missing     bool
		wantUpdated bool
	}{
		{name: "missing file", missing: true, wantUpdated: true},
		{name: "empty file", existing: []byte{}, wantUpdated: true},
		{name: "short file", existing: []byte{0, 0, 0, 1}, wantUpdated: true},
		{name: "wrong version", existing: wrongVersion, wantUpdated: true},
		{name: "valid file", existing: valid, wantUpdated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "thumbnailers.cache")
			if !tt.missing {
				if err := os.WriteFile(target, tt.existing, 0o644); err != nil {
					t.Fatal(err)
				}
			}

			updated, err := update(target)
			if err != nil {
				t.Fatalf("update() error = %v", err)
			}
			if updated != tt.wantUpdated {
				t.Errorf("update() = %v, want %v", updated, tt.wantUpdated)
			}

			data, err := os.ReadFile(target)
			if err != nil {
				t.Fatal(err)
			}
			if err := cache.ValidateHeader(data); err != nil {
				t.Errorf("file after update is invalid: %v", err)
			}
			if !tt.wantUpdated && !bytes.Equal(data, tt.existing) {
				t.Error("valid file was modified")
			}
		})
	}
}

func TestUpdateCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "thumbnailers.cache")
	updated, err := update(target)
	if err != nil || !updated {
		t.Fatalf("update() = %v, %v", updated, err)
	}
}

func TestUpdateLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "thumbnailers.cache")
	if _, err := update(target); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "thumbnailers.cache" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only the cache file", names)
	}
}

func TestUpdateReadError(t *testing.T) {
	// A directory in place of the cache file cannot be read.
	target := t.TempDir()
	if _, err := update(target); err == nil {
		t.Fatal("update() should fail when the target is a directory")
	}
}

func TestShowStatus(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.cache")
	invalid := filepath.Join(dir, "invalid.cache")
	if err := os.WriteFile(valid, encodeHeader(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(invalid, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantText string
	}{
		{"valid", valid, exitUnchanged, "valid, 16 bytes, version 1.0"},
		{"invalid", invalid, exitError, "invalid"},
		{"missing", filepath.Join(dir, "missing.cache"), exitError, "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := showStatus(&buf, tt.target); code != tt.wantCode {
				t.Errorf("showStatus() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output %q missing %q", buf.String(), tt.wantText)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	if exitUpdated != 33 {
		t.Errorf("exitUpdated = %d, want 33", exitUpdated)
	}
	if exitUnchanged == exitUpdated || exitError == exitUpdated {
		t.Error("exit codes must be distinct")
	}
}

func TestSanitizeCommand(t *testing.T) {
	if got := sanitizeCommand("rm -rf /;\n"); got != "rm_-rf____" {
		t.Errorf("sanitizeCommand() = %q", got)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	for _, want := range []string{"Usage:", "CACHE_FILE", "33"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}
