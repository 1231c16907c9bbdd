package native_csv

import (
	"io"
	"unsafe"

	"github.com/dsnet/golib/memfile"
	"github.com/ryogrid/QueryCore/common"
)

// arena stages every buffer of one table in a memfile and then seals it
// into a single 8 byte aligned block which the descriptors point into.
type arena struct {
	staging *memfile.File
	buf     []byte
}

func newArena() *arena {
	return &arena{staging: memfile.New(make([]byte, 0))}
}

// put appends b at the next aligned offset and returns that offset.
func (a *arena) put(b []byte) int {
	off, _ := a.staging.Seek(0, io.SeekEnd)
	if rem := off % common.ForeignBufferAlign; rem != 0 {
		pad := common.ForeignBufferAlign - rem
		a.staging.Write(make([]byte, pad))
		off += pad
	}
	a.staging.Write(b)
	return int(off)
}

func (a *arena) putInt32s(vals []int32) int {
	if len(vals) == 0 {
		return a.put(nil)
	}
	return a.put(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*4))
}

func (a *arena) putFloat32s(vals []float32) int {
	if len(vals) == 0 {
		return a.put(nil)
	}
	return a.put(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*4))
}

func (a *arena) putSizes(vals []uintptr) int {
	if len(vals) == 0 {
		return a.put(nil)
	}
	return a.put(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*int(unsafe.Sizeof(uintptr(0)))))
}

func (a *arena) seal() {
	src := a.staging.Bytes()
	words := make([]uint64, len(src)/8+1)
	a.buf = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(src))
	copy(a.buf, src)
	a.staging = nil
}

// at returns a pointer to the sealed block at off. a buffer of n bytes
// at off which is empty gets nil.
func (a *arena) at(off int, n int) *byte {
	if n == 0 {
		return nil
	}
	return &a.buf[off]
}
