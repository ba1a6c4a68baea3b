//go:build !windows

package dib

// DefaultHost returns the host used when none is configured:
// GDI on Windows, MemoryHost elsewhere.
func DefaultHost() Host { return MemoryHost{} }
