package wordlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/lists/rockyou.txt" becomes ".../lists/rockyou.txt".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	base := filepath.Base(cleaned)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// CheckAllowed verifies that path names an existing file inside one of
// allowedDirs after symlinks are resolved. Remote callers (the MCP server
// and HTTP API) may only read wordlists from configured directories.
func CheckAllowed(path string, allowedDirs []string) error {
	if path == "" {
		return fmt.Errorf("wordlist path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("wordlist path contains null byte")
	}
	if len(allowedDirs) == 0 {
		return fmt.Errorf("no wordlist directories are configured")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving wordlist path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("wordlist %s: %w", RedactPath(abs), unwrapPathError(err))
	}

	for _, dir := range allowedDirs {
		dirAbs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		dirResolved, err := filepath.EvalSymlinks(dirAbs)
		if err != nil {
			continue
		}
		if resolved == dirResolved || strings.HasPrefix(resolved, dirResolved+string(os.PathSeparator)) {
			return nil
		}
	}
	return fmt.Errorf("wordlist %s is outside the allowed directories", RedactPath(abs))
}
