package columnar

import (
	"fmt"
	"unsafe"

	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/storage/foreign"
)

// FromForeign maps the descriptors 1:1 onto views, bottom-up.
// Nothing is filtered, reordered or copied except the string headers of
// Utf8String sub-chunks. The descriptors are trusted: counts are taken as
// the true array lengths and pointers are not checked (see Validate).
func FromForeign(ft *foreign.TableView) *TableView {
	fcols := unsafe.Slice(ft.Columns, ft.NumOfColumns)
	cols := make([]*ColumnView, len(fcols))
	for i := range fcols {
		cols[i] = columnFromForeign(&fcols[i])
	}
	return &TableView{cols}
}

func columnFromForeign(fc *foreign.ColumnView) *ColumnView {
	name := borrowString(fc.Name, fc.NameLen)
	fchunks := unsafe.Slice(fc.Chunks, fc.NumOfChunks)

	var chunks ChunkViews
	switch fc.DataType {
	case foreign.Int:
		chunks = IntChunks(chunksFromForeign(fchunks, intSubChunk))
	case foreign.Float:
		chunks = FloatChunks(chunksFromForeign(fchunks, floatSubChunk))
	case foreign.String:
		chunks = StringChunks(chunksFromForeign(fchunks, stringSubChunk))
	default:
		common.SH_Assert(false, fmt.Sprintf("column %q has unknown data type tag %d", name, int32(fc.DataType)))
	}
	return &ColumnView{name, chunks}
}

func chunksFromForeign[T Element](fchunks []foreign.ChunkView, sub func(*foreign.SubChunkView) SubChunk[T]) []Chunk[T] {
	ret := make([]Chunk[T], len(fchunks))
	for i := range fchunks {
		fsubs := unsafe.Slice(fchunks[i].SubChunks, fchunks[i].NumOfSubChunks)
		subs := make([]SubChunk[T], len(fsubs))
		for j := range fsubs {
			subs[j] = sub(&fsubs[j])
		}
		ret[i] = Chunk[T]{subs, fchunks[i].ReferencedChunks != nil}
	}
	return ret
}

// data must be an aligned array of at least NumOfItems int32s
func intSubChunk(fsc *foreign.SubChunkView) SubChunk[int32] {
	return SubChunk[int32]{unsafe.Slice((*int32)(unsafe.Pointer(fsc.Data)), fsc.NumOfItems)}
}

// data must be an aligned array of at least NumOfItems float32s
func floatSubChunk(fsc *foreign.SubChunkView) SubChunk[float32] {
	return SubChunk[float32]{unsafe.Slice((*float32)(unsafe.Pointer(fsc.Data)), fsc.NumOfItems)}
}

// item i is data[offsets[i] : offsets[i]+lengths[i]]. ranges may overlap
// and come in any order. the bytes are not checked to be UTF-8
func stringSubChunk(fsc *foreign.SubChunkView) SubChunk[string] {
	values := make([]string, fsc.NumOfItems)
	if len(values) == 0 {
		return SubChunk[string]{values}
	}
	offsets := unsafe.Slice(fsc.Offsets, fsc.NumOfItems)
	lengths := unsafe.Slice(fsc.Lengths, fsc.NumOfItems)
	for i := range values {
		if lengths[i] == 0 {
			// offset of an empty item may point just past the buffer
			continue
		}
		values[i] = unsafe.String((*byte)(unsafe.Add(unsafe.Pointer(fsc.Data), offsets[i])), lengths[i])
	}
	return SubChunk[string]{values}
}

func borrowString(p *byte, n uintptr) string {
	if n == 0 {
		return ""
	}
	return unsafe.String(p, n)
}
