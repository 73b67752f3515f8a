//go:build windows

package fdlimit

// Raise is a no-op on Windows: there is no POSIX-style RLIMIT_NOFILE soft
// limit to raise, and the platform's file-handle ceiling is governed
// elsewhere. It always reports that nothing changed.
func Raise(target uint64) (previous uint64, raised bool, err error) {
	return 0, false, nil
}

// Restore is a no-op on Windows, matching Raise.
func Restore(previous uint64) error {
	return nil
}
