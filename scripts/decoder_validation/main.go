// Validate decoder allocations - measures allocations per decode with and
// without the decode cache.
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/insts"
)

var codes = []string{
	"032600",   // LDA LENGTH
	"3F2FEC",   // J LOOP
	"57C003",   // STCH BUFFER,X
	"4B101036", // +JSUB RDREC
}

type measurement struct {
	elapsed        time.Duration
	allocations    uint64
	allocatedBytes uint64
}

func measure(iterations int, decode func(code string)) measurement {
	// Warm up
	for i := 0; i < 1000; i++ {
		decode(codes[i%len(codes)])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		for _, code := range codes {
			decode(code)
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	return measurement{
		elapsed:        elapsed,
		allocations:    m2.Mallocs - m1.Mallocs,
		allocatedBytes: m2.TotalAlloc - m1.TotalAlloc,
	}
}

func report(name string, m measurement, totalDecodes int) {
	fmt.Printf("\n%s\n", name)
	fmt.Printf("Time elapsed: %v\n", m.elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/m.elapsed.Seconds())
	fmt.Printf("Allocations per decode: %.3f\n", float64(m.allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(m.allocatedBytes)/float64(totalDecodes))
}

func main() {
	decoder := insts.NewDecoder()
	decodeCache := cache.New(cache.DefaultConfig())

	iterations := 100000
	totalDecodes := iterations * len(codes)

	direct := measure(iterations, func(code string) {
		if _, err := decoder.Decode(code, 0x3000, 0x6000); err != nil {
			panic(err)
		}
	})
	cached := measure(iterations, func(code string) {
		if _, err := decodeCache.Decode(decoder, code, 0x3000, 0x6000); err != nil {
			panic(err)
		}
	})

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	report("Decoder", direct, totalDecodes)
	report("Decoder with cache", cached, totalDecodes)

	stats := decodeCache.Stats()
	fmt.Printf("\nCache hits: %d, misses: %d, evictions: %d\n",
		stats.Hits, stats.Misses, stats.Evictions)

	// Each decode returns one *Instruction.
	if float64(direct.allocations)/float64(totalDecodes) <= 1.0 {
		fmt.Printf("\n✅ GOOD: At most one allocation per decode\n")
	} else {
		fmt.Printf("\n⚠️  WARNING: High allocation rate detected\n")
	}
}
