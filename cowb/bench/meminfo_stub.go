//go:build !linux

package bench

// ReadMemInfo is unsupported on this platform.
func ReadMemInfo() (MemInfo, error) {
	return MemInfo{}, ErrMemInfoUnavailable
}
