package id

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases. If it overflows, it restarts from 1,
// so a generated number is never zero. The counter occupies a whole cache
// line to avoid false sharing when concurrent callers pull keys from
// the same generator.
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte // padding for CPU cache line
	val uint64
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte // padding for CPU cache line
}

func (id *monotonicNonZeroID) next() uint64 {
	var v uint64
	if v = atomic.AddUint64(&id.val, 1); v == 0 {
		v = atomic.AddUint64(&id.val, 1)
	}
	return v
}

// MonotonicNonZeroID builds a generator of unique, strictly increasing
// uint64 keys. The randomized tree tests use it to produce
// collision-free key streams.
func MonotonicNonZeroID() (Generator, error) {
	src := &monotonicNonZeroID{val: 0}
	id := new(defaultID)
	id.number = func() uint64 {
		return src.next()
	}
	id.str = func() string {
		return strconv.FormatUint(src.next(), 10)
	}
	return id, nil
}
