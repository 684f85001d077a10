// =============================================================================
// Card Transaction ETL - File Manager
// =============================================================================
//
// The pipeline reads batches from a landing zone and writes its JSONL outputs
// to a green zone. In deployment those are object-store buckets; here both
// are directories on the local filesystem, and object keys are paths relative
// to the zone root. The core never touches the filesystem directly — it takes
// a row sequence in and hands byte payloads out — so this module is the whole
// of the storage collaborator.
//
// Retry and backoff for transient storage errors belong to the environment
// that invokes the pipeline, not here.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles object reads and writes for one pipeline run.
type FileManager struct {
	// LandingDir is the root of the landing zone, where batch CSVs arrive.
	LandingDir string

	// GreenZoneDir is the root of the green zone, where outputs are written.
	GreenZoneDir string

	// ArchiveDir receives processed input files.
	ArchiveDir string
}

// NewFileManager creates a FileManager over the given zone roots.
func NewFileManager(landingDir, greenZoneDir, archiveDir string) *FileManager {
	return &FileManager{
		LandingDir:   landingDir,
		GreenZoneDir: greenZoneDir,
		ArchiveDir:   archiveDir,
	}
}

// EnsureDirectories creates the zone roots if they do not exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.LandingDir, fm.GreenZoneDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// OBJECT ACCESS
// =============================================================================

// ReadObject returns the raw bytes of an object in the landing zone.
func (fm *FileManager) ReadObject(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(fm.LandingDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// WriteObject writes a payload under the given key in the green zone,
// creating parent directories as needed. It returns the path written.
func (fm *FileManager) WriteObject(key string, payload []byte) (string, error) {
	path := filepath.Join(fm.GreenZoneDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directories for %s: %w", key, err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return path, nil
}

// =============================================================================
// BATCH DISCOVERY
// =============================================================================

// DiscoverBatches walks the landing zone and returns the keys of all pending
// batch files (extension .csv), sorted, as slash-separated keys relative to
// the zone root.
func (fm *FileManager) DiscoverBatches() ([]string, error) {
	var keys []string

	err := filepath.WalkDir(fm.LandingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}

		rel, err := filepath.Rel(fm.LandingDir, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan landing zone: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a processed batch out of the landing zone into the
// archive directory, preserving its key path. If the destination already
// exists, a timestamp suffix keeps the move collision-free.
func (fm *FileManager) ArchiveInputFile(key string) (string, error) {
	src := filepath.Join(fm.LandingDir, filepath.FromSlash(key))
	dst := filepath.Join(fm.ArchiveDir, filepath.FromSlash(key))

	if FileExists(dst) {
		ext := filepath.Ext(dst)
		dst = strings.TrimSuffix(dst, ext) + "_" + time.Now().Format("20060102_150405") + ext
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		// Rename can fail across devices; fall back to copy and delete.
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return dst, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// FileExists reports whether a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies src to dst, preserving nothing but the bytes.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
