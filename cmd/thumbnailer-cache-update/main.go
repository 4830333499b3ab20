package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"thumbnailer/internal/cache"

	"golang.org/x/term"
)

const (
	exitUnchanged = 0
	exitError     = 1
	exitUpdated   = cache.UpdatedExitCode
)

func main() {
	target := os.Getenv("CACHE_FILE")
	if target == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: CACHE_FILE is not set and no cache directory is available: %v\n", err)
			os.Exit(exitError)
		}
		target = filepath.Join(dir, "thumbnailers.cache")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "status":
			os.Exit(showStatus(os.Stdout, target))
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			os.Exit(exitUnchanged)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(os.Args[1])) //nolint:gosec // G705 - sanitized via allowlist
			printUsage(os.Stderr)
			os.Exit(exitError)
		}
	}

	updated, err := update(target)
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	case updated:
		if interactive {
			fmt.Printf("Rebuilt %s (version %d.%d)\n", target, cache.SupportedMajor, cache.SupportedMinor)
		}
		os.Exit(exitUpdated)
	default:
		if interactive {
			fmt.Printf("%s is up to date\n", target)
		}
		os.Exit(exitUnchanged)
	}
}

// update rewrites target with a current header-only cache unless it
// already holds a valid one. It reports whether the file was rewritten.
func update(target string) (bool, error) {
	data, err := os.ReadFile(target)
	switch {
	case err == nil:
		if cache.ValidateHeader(data) == nil {
			return false, nil
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return false, fmt.Errorf("read %s: %w", target, err)
	}

	if err := writeAtomic(target, encodeHeader()); err != nil {
		return false, err
	}
	return true, nil
}

func encodeHeader() []byte {
	buf := make([]byte, cache.HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], cache.SupportedMajor)
	binary.BigEndian.PutUint32(buf[4:8], cache.SupportedMinor)
	return buf
}

// writeAtomic writes data next to target and renames it into place, so a
// reader never observes a partially written cache.
func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	tmpName = ""
	return nil
}

func showStatus(w io.Writer, target string) int {
	data, err := os.ReadFile(target)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", target, err)
		return exitError
	}
	if err := cache.ValidateHeader(data); err != nil {
		fmt.Fprintf(w, "%s: invalid (%v)\n", target, err)
		return exitError
	}
	fmt.Fprintf(w, "%s: valid, %d bytes, version %d.%d\n", target, len(data), cache.SupportedMajor, cache.SupportedMinor)
	return exitUnchanged
}

// sanitizeCommand returns a safe representation of a command string for display.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Thumbnailer cache update helper")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: thumbnailer-cache-update [status]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without a command the cache file is rebuilt if it is missing or invalid.")
	fmt.Fprintf(w, "Exit status: %d rebuilt, %d unchanged, %d error.\n", exitUpdated, exitUnchanged, exitError)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CACHE_FILE - Path to the cache file (default: $XDG_CACHE_HOME/thumbnailers.cache)")
}
