// helpers which lay out foreign descriptors over Go memory for tests.
// descriptors hold typed pointers into the backing slices, so the backing
// memory stays alive as long as the descriptors are reachable.

package testing_util

import (
	"unsafe"

	pair "github.com/notEpsilon/go-pair"
	"github.com/ryogrid/QueryCore/storage/foreign"
)

func IntSubChunk(values []int32) foreign.SubChunkView {
	data := append([]int32(nil), values...)
	ret := foreign.SubChunkView{NumOfItems: uintptr(len(data))}
	if len(data) > 0 {
		ret.Data = (*byte)(unsafe.Pointer(&data[0]))
	}
	return ret
}

func FloatSubChunk(values []float32) foreign.SubChunkView {
	data := append([]float32(nil), values...)
	ret := foreign.SubChunkView{NumOfItems: uintptr(len(data))}
	if len(data) > 0 {
		ret.Data = (*byte)(unsafe.Pointer(&data[0]))
	}
	return ret
}

// StringSubChunk packs values by concatenation and records the
// offset and length of each of them.
func StringSubChunk(values []string) foreign.SubChunkView {
	data := make([]byte, 0)
	spans := make([]pair.Pair[uintptr, uintptr], 0, len(values))
	for _, s := range values {
		spans = append(spans, pair.Pair[uintptr, uintptr]{First: uintptr(len(data)), Second: uintptr(len(s))})
		data = append(data, s...)
	}
	return StringSubChunkFromSpans(data, spans)
}

// StringSubChunkFromSpans describes items as (offset, length) spans over
// data. spans may overlap or come in any order.
func StringSubChunkFromSpans(data []byte, spans []pair.Pair[uintptr, uintptr]) foreign.SubChunkView {
	buf := append([]byte(nil), data...)
	offsets := make([]uintptr, len(spans))
	lengths := make([]uintptr, len(spans))
	for i, sp := range spans {
		offsets[i] = sp.First
		lengths[i] = sp.Second
	}
	ret := foreign.SubChunkView{NumOfItems: uintptr(len(spans))}
	if len(buf) > 0 {
		ret.Data = &buf[0]
	}
	if len(spans) > 0 {
		ret.Offsets = &offsets[0]
		ret.Lengths = &lengths[0]
	}
	return ret
}

func Chunk(subs ...foreign.SubChunkView) foreign.ChunkView {
	arr := append([]foreign.SubChunkView(nil), subs...)
	ret := foreign.ChunkView{NumOfSubChunks: uintptr(len(arr))}
	if len(arr) > 0 {
		ret.SubChunks = &arr[0]
	}
	return ret
}

// AliasedChunk is Chunk with a referenced_chunks array set.
func AliasedChunk(referenced []uintptr, subs ...foreign.SubChunkView) foreign.ChunkView {
	ret := Chunk(subs...)
	refs := append([]uintptr(nil), referenced...)
	if len(refs) > 0 {
		ret.ReferencedChunks = &refs[0]
	}
	return ret
}

func Column(name string, dataType foreign.DataType, chunks ...foreign.ChunkView) foreign.ColumnView {
	nameBuf := []byte(name)
	arr := append([]foreign.ChunkView(nil), chunks...)
	ret := foreign.ColumnView{
		NameLen:     uintptr(len(nameBuf)),
		NumOfChunks: uintptr(len(arr)),
		DataType:    dataType,
	}
	if len(nameBuf) > 0 {
		ret.Name = &nameBuf[0]
	}
	if len(arr) > 0 {
		ret.Chunks = &arr[0]
	}
	return ret
}

func Table(cols ...foreign.ColumnView) foreign.TableView {
	arr := append([]foreign.ColumnView(nil), cols...)
	ret := foreign.TableView{NumOfColumns: uintptr(len(arr))}
	if len(arr) > 0 {
		ret.Columns = &arr[0]
	}
	return ret
}

// RecordingBoundary hands out a fixed table and records each call.
type RecordingBoundary struct {
	Table foreign.TableView
	Err   error
	Paths []string
}

func (b *RecordingBoundary) Parse(path *byte) (foreign.TableView, error) {
	b.Paths = append(b.Paths, GoString(path))
	return b.Table, b.Err
}

// GoString copies a NUL terminated byte string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
