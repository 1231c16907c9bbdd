// Package foreign describes the memory layout of a columnar table produced
// on the other side of the foreign boundary. The structs below have the same
// layout as their C counterparts (see cboundary/foreign_table.h) and carry
// no behavior: every pointer and count is owned and maintained by the
// producer.
package foreign

import "fmt"

// DataType is the element type tag of a column. It is a C enum on the
// producer side, so it is 32 bits wide.
type DataType int32

const (
	Int DataType = iota
	Float
	String
)

func (t DataType) String() string {
	switch t {
	case Int:
		return "Int32"
	case Float:
		return "Float32"
	case String:
		return "Utf8String"
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}

func (t DataType) IsValid() bool {
	return t == Int || t == Float || t == String
}

type TableView struct {
	Columns      *ColumnView
	NumOfColumns uintptr
}

type ColumnView struct {
	Name        *byte
	NameLen     uintptr
	Chunks      *ChunkView
	NumOfChunks uintptr
	DataType    DataType
}

type ChunkView struct {
	SubChunks *SubChunkView
	// reserved for chunk aliasing. nothing reads the target yet
	ReferencedChunks *uintptr
	NumOfSubChunks   uintptr
}

// SubChunkView is one contiguous run of items. Offsets and Lengths are set
// only for String columns and give the byte range of each item in Data.
type SubChunkView struct {
	Data       *byte
	Offsets    *uintptr
	Lengths    *uintptr
	NumOfItems uintptr
}
