package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// networkPrefixes are common mount points for network and removable media
var networkPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/Volumes/", // macOS network volumes
}

// networkIndicators are path fragments that usually mean a network filesystem
var networkIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

// IsNetworkDrive detects if a path is on a network-mounted drive
func IsNetworkDrive(path string) bool {
	// UNC paths are checked before converting to an absolute path
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, `\\`) {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range networkIndicators {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// HashWorkers resolves the --workers flag. Zero or less picks a count for dir:
// a single worker on network drives, where parallel reads only add seeks,
// and one per CPU otherwise.
func HashWorkers(requested int, dir string) int {
	if requested > 0 {
		return requested
	}
	if IsNetworkDrive(dir) {
		return 1
	}
	return runtime.NumCPU()
}
