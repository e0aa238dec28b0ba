//go:build !linux

package process

// ADDR_NO_RANDOMIZE is a Linux-only personality(2) bit; on every other
// platform disabling ASLR through this mechanism is a no-op, per the
// distilled spec's environment note (§6).
func disableASLR() (uintptr, error) { return 0, nil }

func restorePersonality(uintptr) error { return nil }
