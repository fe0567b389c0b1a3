package bench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryAdvisoryWarnsWhenOverBudget(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	mi := MemInfo{TotalBytes: 8 << 30, AvailableBytes: 1 << 30}
	r.MemoryAdvisory(mi, 2<<30, 1<<28)

	assert.Contains(t, out.String(), "WARNING")
}

func TestMemoryAdvisoryQuietWhenWithinBudget(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	mi := MemInfo{TotalBytes: 8 << 30, AvailableBytes: 4 << 30}
	r.MemoryAdvisory(mi, 2<<30, 1<<28)

	assert.NotContains(t, out.String(), "WARNING")
	assert.Contains(t, out.String(), "Estimated peak, COW (lower bound)")
}
