//go:build linux

package process

import "golang.org/x/sys/unix"

// addrNoRandomize is Linux's ADDR_NO_RANDOMIZE personality(2) bit.
const addrNoRandomize = 0x0040000

// getPersonality, passed as the persona argument to personality(2), reads
// the current value back without changing it.
const getPersonality = 0xffffffff

func currentPersonality() (uintptr, error) {
	r, _, errno := unix.Syscall(unix.SYS_PERSONALITY, getPersonality, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return r, nil
}

func setPersonality(p uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_PERSONALITY, p, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// disableASLR snapshots the calling thread's personality, ORs in
// ADDR_NO_RANDOMIZE, and returns the original value so it can be restored
// once the child has been spawned -- only the child inherits the
// disabled-ASLR personality at exec.
func disableASLR() (uintptr, error) {
	orig, err := currentPersonality()
	if err != nil {
		return 0, err
	}
	if err := setPersonality(orig | addrNoRandomize); err != nil {
		return 0, err
	}
	return orig, nil
}

func restorePersonality(orig uintptr) error {
	return setPersonality(orig)
}
