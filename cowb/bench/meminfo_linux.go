//go:build linux

package bench

import "golang.org/x/sys/unix"

// ReadMemInfo reports total and free physical memory via sysinfo(2).
func ReadMemInfo() (MemInfo, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return MemInfo{}, err
	}
	unit := uint64(si.Unit)
	return MemInfo{
		TotalBytes:     uint64(si.Totalram) * unit,
		AvailableBytes: uint64(si.Freeram) * unit,
	}, nil
}
