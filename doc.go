// Package pwngo is an exploit-development toolkit: a duplex, buffered,
// timeout-bounded byte channel ("Tube") for driving local processes and
// remote TCP services, plus the payload primitives that sit in the hot path
// of exploitation - format-string write-what-where payloads, glibc FILE
// structure forging, and heap safelink mangling.
//
// The Tube contract lives here; concrete transports live in the process and
// remote subpackages.
package pwngo
