package util

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileInfo contains extended file information, including modification time, size, and inode number.
type FileInfo struct {
	ModTime int64  // Last modification time of the file
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number (unique file identifier on Unix-like systems)
}

// GetFileInfo retrieves detailed file information, including inode number.
// Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	var stat unix.Stat_t
	if err := unix.Stat(filepath, &stat); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filepath, err)
	}

	return &FileInfo{
		ModTime: int64(stat.Mtim.Sec),
		Size:    stat.Size,
		Inode:   stat.Ino,
	}, nil
}
