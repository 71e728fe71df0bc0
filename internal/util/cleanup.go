package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

// InterruptContext derives a context that is cancelled on SIGINT or SIGTERM.
// Callers finish their current work, then call stop and clean up.
func InterruptContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CleanupPartialFiles deletes temp files in every manga folder under
// outputDir and drops folders left empty.
func CleanupPartialFiles(outputDir string) int {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		folder := filepath.Join(outputDir, e.Name())
		files, err := os.ReadDir(folder)
		if err != nil {
			continue
		}

		for _, f := range files {
			if f.IsDir() || !IsTempFile(f.Name()) {
				continue
			}

			full := filepath.Join(folder, f.Name())
			if err := os.Remove(full); err != nil {
				fmt.Printf("Error cleaning up %s: %v\n", full, err)
			} else {
				removed++
			}
		}

		RemoveIfEmpty(folder)
	}

	return removed
}

func RemoveIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		if err := os.Remove(dir); err == nil {
			fmt.Printf("Removed empty folder: %s\n", dir)
		}
	}
}
