package bench

import "errors"

// MemInfo is a point-in-time view of physical memory.
type MemInfo struct {
	TotalBytes     uint64
	AvailableBytes uint64
}

// ErrMemInfoUnavailable reports that the platform offers no supported
// physical-memory query. The advisory is informational only, so callers
// log and continue.
var ErrMemInfoUnavailable = errors.New("bench: memory information unavailable")
