package generator

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dave/jennifer/jen"
	"github.com/spf13/afero"
)

// Render renders every file of result. Nothing is returned unless all files
// render.
func Render(result map[string]*jen.File) (map[string][]byte, error) {
	rendered := make(map[string][]byte, len(result))
	for _, fullPath := range sortedPaths(result) {
		var buf bytes.Buffer
		if err := result[fullPath].Render(&buf); err != nil {
			return nil, fmt.Errorf("render error for '%s': %w", fullPath, err)
		}
		rendered[fullPath] = buf.Bytes()
	}
	return rendered, nil
}

// Write renders result and saves it to fs, returning the paths written. An
// existing file is only replaced if it starts with Header. No file is written
// if any file fails to render or would replace a file not generated by
// rttigen.
func Write(fs afero.Fs, result map[string]*jen.File) ([]string, error) {
	rendered, err := Render(result)
	if err != nil {
		return nil, err
	}
	paths := sortedPaths(rendered)
	for _, fullPath := range paths {
		exists, err := afero.Exists(fs, fullPath)
		if err != nil {
			return nil, fmt.Errorf("checking '%s': %w", fullPath, err)
		}
		if !exists {
			continue
		}
		generated, err := hasHeader(fs, fullPath)
		if err != nil {
			return nil, err
		}
		if !generated {
			return nil, fmt.Errorf("refusing to overwrite '%s': it does not start with %q", fullPath, "// "+Header)
		}
	}
	for _, fullPath := range paths {
		if err := afero.WriteFile(fs, fullPath, rendered[fullPath], 0o644); err != nil {
			return nil, fmt.Errorf("failed to save file to '%s': %w", fullPath, err)
		}
	}
	return paths, nil
}

// VerifyFilesOnDisk compares the generated results against the files that
// currently exist in fs and returns any mismatches.
func VerifyFilesOnDisk(fs afero.Fs, result map[string]*jen.File) (errors []error) {
	for _, fullPath := range sortedPaths(result) {
		existing, err := afero.ReadFile(fs, fullPath)
		if err != nil {
			errors = append(errors, fmt.Errorf("missing file on disk: %s (%w)", fullPath, err))
			continue
		}

		var buf bytes.Buffer
		if err := result[fullPath].Render(&buf); err != nil {
			errors = append(errors, fmt.Errorf("render error for '%s': %w", fullPath, err))
			continue
		}

		if !bytes.Equal(existing, buf.Bytes()) {
			errors = append(errors, fmt.Errorf("'%s' has changed", fullPath))
			continue
		}
	}
	return errors
}

// Stale returns the generated files in dirs that result no longer produces.
// A file is generated if its name matches pattern and it starts with Header.
func Stale(fs afero.Fs, dirs []string, pattern string, result map[string]*jen.File) ([]string, error) {
	var stale []string
	for _, dir := range dirs {
		entries, err := afero.ReadDir(fs, dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ok, err := doublestar.Match(pattern, entry.Name())
			if err != nil {
				return nil, fmt.Errorf("matching %q: %w", pattern, err)
			}
			fullPath := filepath.Join(dir, entry.Name())
			if _, current := result[fullPath]; !ok || current {
				continue
			}
			generated, err := hasHeader(fs, fullPath)
			if err != nil {
				return nil, err
			}
			if generated {
				stale = append(stale, fullPath)
			}
		}
	}
	slices.Sort(stale)
	return stale, nil
}

// Prune removes the given files from fs.
func Prune(fs afero.Fs, paths []string) error {
	for _, fullPath := range paths {
		if err := fs.Remove(fullPath); err != nil {
			return fmt.Errorf("removing '%s': %w", fullPath, err)
		}
	}
	return nil
}

func hasHeader(fs afero.Fs, fullPath string) (bool, error) {
	f, err := fs.Open(fullPath)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", fullPath, err)
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.TrimSpace(line) == "// "+Header, nil
}

func sortedPaths[V any](m map[string]V) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
