package utils

import (
	"fmt"
	"math"
	"runtime"

	"github.com/exascience/pargo/parallel"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case Matrix:
		return IsNan(v.Data())
	case Vector:
		return IsNan(v.Data())
	}
	return false
}

// MaxAbsDiff is the largest |a[i] - b[i]|, reduced in parallel over chunks
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("length mismatch in MaxAbsDiff: %d != %d", len(a), len(b)))
	}
	if len(a) == 0 {
		return 0
	}
	return parallel.RangeReduceFloat64(0, len(a), 0,
		func(low, high int) (max float64) {
			for i := low; i < high; i++ {
				if d := math.Abs(a[i] - b[i]); d > max {
					max = d
				}
			}
			return
		},
		math.Max,
	)
}
