// Package columnar builds typed, zero-copy views over a columnar table
// which lives in memory owned by a foreign producer.
//
// A view borrows the producer's memory. Numeric sub-chunks are slices over
// the producer's buffers and strings point into the producer's bytes, so a
// view must not be used after the producer released the table it was built
// from, and the producer's buffers must not be written while a view is alive.
package columnar

import (
	"github.com/ryogrid/QueryCore/storage/foreign"
)

type Element interface {
	int32 | float32 | string
}

// SubChunk is one contiguous run of values.
type SubChunk[T Element] struct {
	values []T
}

func (sc SubChunk[T]) Values() []T {
	return sc.values
}

func (sc SubChunk[T]) Len() int {
	return len(sc.values)
}

type Chunk[T Element] struct {
	subChunks []SubChunk[T]
	// the producer declared aliased chunks. they are not resolved
	hasReferencedChunks bool
}

func (c Chunk[T]) SubChunks() []SubChunk[T] {
	return c.subChunks
}

func (c Chunk[T]) HasReferencedChunks() bool {
	return c.hasReferencedChunks
}

func (c Chunk[T]) NumItems() int {
	ret := 0
	for _, sc := range c.subChunks {
		ret += sc.Len()
	}
	return ret
}

// ChunkViews is the chunk list of a column, tagged with the column's
// element type. It is one of IntChunks, FloatChunks or StringChunks.
type ChunkViews interface {
	DataType() foreign.DataType
	// number of chunks
	Len() int
	NumItems() int
	isChunkViews()
}

type IntChunks []Chunk[int32]
type FloatChunks []Chunk[float32]
type StringChunks []Chunk[string]

func (IntChunks) DataType() foreign.DataType    { return foreign.Int }
func (FloatChunks) DataType() foreign.DataType  { return foreign.Float }
func (StringChunks) DataType() foreign.DataType { return foreign.String }

func (cs IntChunks) Len() int    { return len(cs) }
func (cs FloatChunks) Len() int  { return len(cs) }
func (cs StringChunks) Len() int { return len(cs) }

func (cs IntChunks) NumItems() int    { return countItems(cs) }
func (cs FloatChunks) NumItems() int  { return countItems(cs) }
func (cs StringChunks) NumItems() int { return countItems(cs) }

func (IntChunks) isChunkViews()    {}
func (FloatChunks) isChunkViews()  {}
func (StringChunks) isChunkViews() {}

func countItems[T Element](chunks []Chunk[T]) int {
	ret := 0
	for _, c := range chunks {
		ret += c.NumItems()
	}
	return ret
}

type ColumnView struct {
	name   string
	chunks ChunkViews
}

func (c *ColumnView) Name() string {
	return c.name
}

func (c *ColumnView) DataType() foreign.DataType {
	return c.chunks.DataType()
}

func (c *ColumnView) Chunks() ChunkViews {
	return c.chunks
}

func (c *ColumnView) NumItems() int {
	return c.chunks.NumItems()
}

func (c *ColumnView) IntChunks() (IntChunks, bool) {
	cs, ok := c.chunks.(IntChunks)
	return cs, ok
}

func (c *ColumnView) FloatChunks() (FloatChunks, bool) {
	cs, ok := c.chunks.(FloatChunks)
	return cs, ok
}

func (c *ColumnView) StringChunks() (StringChunks, bool) {
	cs, ok := c.chunks.(StringChunks)
	return cs, ok
}

type TableView struct {
	columns []*ColumnView
}

// Columns returns the columns in the order the producer declared them.
func (t *TableView) Columns() []*ColumnView {
	return t.columns
}

func (t *TableView) NumColumns() int {
	return len(t.columns)
}

// ColumnByName returns the first column named name.
func (t *TableView) ColumnByName(name string) (*ColumnView, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// NumRows is the item count of the first column. Columns are not checked
// to agree with each other.
func (t *TableView) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].NumItems()
}
