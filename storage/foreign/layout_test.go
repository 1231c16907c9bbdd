package foreign

import (
	"testing"
	"unsafe"

	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
)

// the offsets are those of the C structs on LP64 targets
func TestLayoutMatchesCStructs(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout expectations are written for 64bit targets")
	}

	testingpkg.Equals(t, uintptr(16), unsafe.Sizeof(TableView{}))
	testingpkg.Equals(t, uintptr(8), unsafe.Offsetof(TableView{}.NumOfColumns))

	testingpkg.Equals(t, uintptr(40), unsafe.Sizeof(ColumnView{}))
	testingpkg.Equals(t, uintptr(8), unsafe.Offsetof(ColumnView{}.NameLen))
	testingpkg.Equals(t, uintptr(16), unsafe.Offsetof(ColumnView{}.Chunks))
	testingpkg.Equals(t, uintptr(24), unsafe.Offsetof(ColumnView{}.NumOfChunks))
	testingpkg.Equals(t, uintptr(32), unsafe.Offsetof(ColumnView{}.DataType))

	testingpkg.Equals(t, uintptr(24), unsafe.Sizeof(ChunkView{}))
	testingpkg.Equals(t, uintptr(8), unsafe.Offsetof(ChunkView{}.ReferencedChunks))
	testingpkg.Equals(t, uintptr(16), unsafe.Offsetof(ChunkView{}.NumOfSubChunks))

	testingpkg.Equals(t, uintptr(32), unsafe.Sizeof(SubChunkView{}))
	testingpkg.Equals(t, uintptr(8), unsafe.Offsetof(SubChunkView{}.Offsets))
	testingpkg.Equals(t, uintptr(16), unsafe.Offsetof(SubChunkView{}.Lengths))
	testingpkg.Equals(t, uintptr(24), unsafe.Offsetof(SubChunkView{}.NumOfItems))
}

func TestDataTypeTag(t *testing.T) {
	testingpkg.Equals(t, int32(0), int32(Int))
	testingpkg.Equals(t, int32(1), int32(Float))
	testingpkg.Equals(t, int32(2), int32(String))
	testingpkg.Assert(t, String.IsValid(), "String must be a valid tag")
	testingpkg.AssertFalse(t, DataType(3).IsValid(), "3 must not be a valid tag")
	testingpkg.Equals(t, "Utf8String", String.String())
	testingpkg.Equals(t, "DataType(7)", DataType(7).String())
}
