//go:build !windows

package fdlimit

import "syscall"

// Raise attempts to raise the process's open-file soft limit to at least
// target. It returns the previous soft limit so the caller can restore it
// with Restore, and a bool reporting whether it actually changed anything.
func Raise(target uint64) (previous uint64, raised bool, err error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, false, err
	}

	previous = rLimit.Cur

	if rLimit.Cur >= target {
		return previous, false, nil
	}
	if rLimit.Max < target {
		target = rLimit.Max
	}
	if target <= rLimit.Cur {
		return previous, false, nil
	}

	rLimit.Cur = target
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return previous, false, err
	}
	return previous, true, nil
}

// Restore sets the open-file soft limit back to a previously observed
// value, typically the one returned by Raise.
func Restore(previous uint64) error {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return err
	}
	rLimit.Cur = previous
	return syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
}
