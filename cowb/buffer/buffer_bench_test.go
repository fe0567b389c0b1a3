package buffer

import "testing"

const benchSize = 1 << 20

// BenchmarkClone benchmarks the O(1) aliasing copy
func BenchmarkClone(b *testing.B) {
	orig, err := New[int32](benchSize)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cp, err := orig.Clone()
		if err != nil {
			b.Fatal(err)
		}
		b.StopTimer()
		if err := cp.Release(); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
	}
}

// BenchmarkNaiveCopy benchmarks the full allocate-and-copy baseline
func BenchmarkNaiveCopy(b *testing.B) {
	src := make([]int32, benchSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst := make([]int32, benchSize)
		copy(dst, src)
	}
}

// BenchmarkFirstWriteDivergence benchmarks the one-time duplication
// cost paid by the first write through a shared handle
func BenchmarkFirstWriteDivergence(b *testing.B) {
	orig, err := New[int32](benchSize)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		cp, err := orig.Clone()
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		if err := cp.Set(i%benchSize, int32(i)); err != nil {
			b.Fatal(err)
		}

		b.StopTimer()
		if err := cp.Release(); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
	}
}
