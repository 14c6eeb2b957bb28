// Package certs resolves certificate references against a base directory.
package certs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirectoryResolver resolves certificate references to files under a base
// directory. References are relative paths like "2025/KT-2021-0001.pdf".
type DirectoryResolver struct {
	baseDir string
}

// NewDirectoryResolver creates a resolver rooted at baseDir.
func NewDirectoryResolver(baseDir string) *DirectoryResolver {
	return &DirectoryResolver{baseDir: baseDir}
}

// Resolve returns the absolute path for a certificate reference. The
// reference must stay inside the base directory and the file must exist.
func (r *DirectoryResolver) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty certificate reference")
	}

	path := filepath.Join(r.baseDir, filepath.FromSlash(ref))
	clean := filepath.Clean(path)
	if !strings.HasPrefix(clean, filepath.Clean(r.baseDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("certificate reference %q escapes the certificate directory", ref)
	}

	if _, err := os.Stat(clean); err != nil {
		return "", fmt.Errorf("certificate %q not available: %w", ref, err)
	}
	return clean, nil
}
