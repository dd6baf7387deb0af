// Package backup snapshots data files and prunes old snapshots under a
// two-tier retention policy: a block of newest snapshots kept unconditionally,
// plus a stratified sample of older ones spread across the full age range.
package backup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrSourceMissing indicates the file to back up does not exist.
var ErrSourceMissing = errors.New("backup source does not exist")

// timestampFormat is second resolution; backup names embed 14 digits.
const timestampFormat = "20060102150405"

// Policy controls how many snapshots survive a retention pass.
type Policy struct {
	KeepRecent     int
	KeepHistorical int
}

// Create copies sourcePath into backupDir as {stem}_{timestamp}{ext}, creating
// the directory if needed, then enforces retention for that file's snapshots.
// The new backup's path is returned.
func Create(sourcePath, backupDir string, policy Policy) (string, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceMissing, sourcePath)
		}
		return "", fmt.Errorf("failed to stat backup source: %w", err)
	}
	if err := os.MkdirAll(backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".bak"
	}

	backupPath := filepath.Join(backupDir,
		fmt.Sprintf("%s_%s%s", stem, time.Now().Format(timestampFormat), ext))
	if err := copyFile(sourcePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", sourcePath, err)
	}

	EnforceRetention(base, backupDir, policy)
	return backupPath, nil
}

// EnforceRetention prunes snapshots of filename in backupDir down to the
// policy's limits. The newest KeepRecent snapshots always survive; from the
// rest, up to KeepHistorical are selected stratified across age. Pruning is
// best-effort: individual delete failures are logged and swallowed so a
// retention pass can never fail the surrounding save.
func EnforceRetention(filename, backupDir string, policy Policy) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	backups, err := listBackups(backupDir, stem)
	if err != nil {
		slog.Warn("failed to list backups for retention", "dir", backupDir, "error", err)
		return
	}
	if len(backups) <= policy.KeepRecent+policy.KeepHistorical {
		return
	}

	// Newest first.
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	recent := policy.KeepRecent
	if recent < 0 {
		recent = 0
	}
	if recent > len(backups) {
		recent = len(backups)
	}

	keep := make(map[string]bool, recent+policy.KeepHistorical)
	for _, b := range backups[:recent] {
		keep[b.path] = true
	}
	for _, b := range selectHistorical(backups[recent:], policy.KeepHistorical) {
		keep[b.path] = true
	}

	for _, b := range backups {
		if keep[b.path] {
			continue
		}
		if err := os.Remove(b.path); err != nil {
			slog.Warn("failed to prune backup", "path", b.path, "error", err)
		}
	}
}

type backupFile struct {
	modTime time.Time
	path    string
}

func listBackups(backupDir, stem string) ([]backupFile, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, err
	}

	var backups []backupFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), stem+"_") {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil, infoErr
		}
		backups = append(backups, backupFile{
			path:    filepath.Join(backupDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	return backups, nil
}

// selectHistorical picks up to count snapshots from remainder (newest first),
// stepping through it oldest-first at an even stride so the survivors cover
// the whole age range instead of one tail.
func selectHistorical(remainder []backupFile, count int) []backupFile {
	if count <= 0 || len(remainder) == 0 {
		return nil
	}

	oldestFirst := make([]backupFile, len(remainder))
	for i, b := range remainder {
		oldestFirst[len(remainder)-1-i] = b
	}
	if len(oldestFirst) <= count {
		return oldestFirst
	}

	step := len(oldestFirst) / count
	if step < 1 {
		step = 1
	}

	var selected []backupFile
	for i := 0; i < len(oldestFirst); i += step {
		selected = append(selected, oldestFirst[i])
		if len(selected) == count {
			break
		}
	}
	return selected
}

// copyFile copies content and preserves mode and modification time, so
// retention ordering reflects the data's age rather than the copy's.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, time.Now(), info.ModTime())
}
