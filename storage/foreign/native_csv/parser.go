// Package native_csv is a CSV producer which lays tables out in the memory
// format of the foreign boundary. It stands in for the native parser, so
// everything it hands out is described only through storage/foreign
// descriptors.
package native_csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"unsafe"

	pair "github.com/notEpsilon/go-pair"
	"github.com/pingcap/errors"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/storage/foreign"
)

type Parser struct {
	chunkRows    int
	subChunkRows int
	latch        common.ReaderWriterLatch
	// tables handed out and not released yet
	tables []*producedTable
}

type Option func(*Parser)

func WithChunkRows(n int) Option {
	return func(p *Parser) { p.chunkRows = n }
}

func WithSubChunkRows(n int) Option {
	return func(p *Parser) { p.subChunkRows = n }
}

// WithLatch replaces the latch guarding the list of live tables.
func WithLatch(l common.ReaderWriterLatch) Option {
	return func(p *Parser) { p.latch = l }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		chunkRows:    common.CSVChunkRows,
		subChunkRows: common.CSVSubChunkRows,
		latch:        common.NewRWLatch(),
		tables:       make([]*producedTable, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	common.SH_Assert(p.chunkRows > 0 && p.subChunkRows > 0, "chunk and sub-chunk row counts must be positive")
	return p
}

// Parse reads the CSV file at the NUL terminated path. The first record
// names the columns. A column whose every field is an int32 becomes an Int
// column, one whose every field is a float32 becomes a Float column and any
// other column is a String column.
func (p *Parser) Parse(path *byte) (foreign.TableView, error) {
	name := cString(path)
	f, err := os.Open(name)
	if err != nil {
		return foreign.TableView{}, errors.Trace(err)
	}
	defer f.Close()
	return p.ParseReader(f)
}

func (p *Parser) ParseReader(r io.Reader) (foreign.TableView, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return foreign.TableView{}, errors.Annotate(err, "malformed csv")
	}
	if len(records) == 0 {
		return foreign.TableView{}, nil
	}

	pt := p.layout(records[0], records[1:])
	p.latch.WLock()
	p.tables = append(p.tables, pt)
	p.latch.WUnlock()
	common.ShPrintf(common.DEBUG_INFO, "native_csv: laid out %d columns, %d rows, %d bytes\n", len(records[0]), len(records)-1, len(pt.arena.buf))
	return pt.view, nil
}

// Close gives up every table this parser produced. Views built over them
// must not be used afterwards.
func (p *Parser) Close() {
	p.latch.WLock()
	defer p.latch.WUnlock()
	p.tables = p.tables[:0]
}

func (p *Parser) NumLiveTables() int {
	p.latch.RLock()
	defer p.latch.RUnlock()
	return len(p.tables)
}

type producedTable struct {
	arena   *arena
	columns []foreign.ColumnView
	view    foreign.TableView
}

// where one sub-chunk's buffers went in the arena
type subChunkLayout struct {
	dataOff, dataLen int
	offsOff, lensOff int
	numItems         int
}

func (p *Parser) layout(header []string, rows [][]string) *producedTable {
	a := newArena()
	names := make([]int, len(header))
	types := make([]foreign.DataType, len(header))
	// [column][chunk][sub-chunk]
	layouts := make([][][]subChunkLayout, len(header))

	for col := range header {
		names[col] = a.put([]byte(header[col]))
		types[col] = inferType(rows, col)
		layouts[col] = make([][]subChunkLayout, 0)
		for start := 0; start < len(rows); start += p.chunkRows {
			end := min(start+p.chunkRows, len(rows))
			subs := make([]subChunkLayout, 0)
			for subStart := start; subStart < end; subStart += p.subChunkRows {
				subEnd := min(subStart+p.subChunkRows, end)
				subs = append(subs, putSubChunk(a, types[col], rows[subStart:subEnd], col))
			}
			layouts[col] = append(layouts[col], subs)
		}
	}
	a.seal()

	pt := &producedTable{arena: a, columns: make([]foreign.ColumnView, len(header))}
	for col := range header {
		chunks := make([]foreign.ChunkView, len(layouts[col]))
		for i, subLayouts := range layouts[col] {
			subs := make([]foreign.SubChunkView, len(subLayouts))
			for j, l := range subLayouts {
				subs[j] = foreign.SubChunkView{
					Data:       a.at(l.dataOff, l.dataLen),
					NumOfItems: uintptr(l.numItems),
				}
				if types[col] == foreign.String && l.numItems > 0 {
					subs[j].Offsets = (*uintptr)(unsafe.Pointer(a.at(l.offsOff, 1)))
					subs[j].Lengths = (*uintptr)(unsafe.Pointer(a.at(l.lensOff, 1)))
				}
			}
			chunks[i] = foreign.ChunkView{NumOfSubChunks: uintptr(len(subs))}
			if len(subs) > 0 {
				chunks[i].SubChunks = &subs[0]
			}
		}
		pt.columns[col] = foreign.ColumnView{
			Name:        a.at(names[col], len(header[col])),
			NameLen:     uintptr(len(header[col])),
			NumOfChunks: uintptr(len(chunks)),
			DataType:    types[col],
		}
		if len(chunks) > 0 {
			pt.columns[col].Chunks = &chunks[0]
		}
	}
	pt.view = foreign.TableView{NumOfColumns: uintptr(len(pt.columns))}
	if len(pt.columns) > 0 {
		pt.view.Columns = &pt.columns[0]
	}
	return pt
}

func putSubChunk(a *arena, dataType foreign.DataType, rows [][]string, col int) subChunkLayout {
	l := subChunkLayout{numItems: len(rows)}
	switch dataType {
	case foreign.Int:
		vals := make([]int32, len(rows))
		for i, row := range rows {
			v, _ := strconv.ParseInt(strings.TrimSpace(row[col]), 10, 32)
			vals[i] = int32(v)
		}
		l.dataOff, l.dataLen = a.putInt32s(vals), len(vals)*4
	case foreign.Float:
		vals := make([]float32, len(rows))
		for i, row := range rows {
			v, _ := strconv.ParseFloat(strings.TrimSpace(row[col]), 32)
			vals[i] = float32(v)
		}
		l.dataOff, l.dataLen = a.putFloat32s(vals), len(vals)*4
	default:
		data := make([]byte, 0)
		spans := make([]pair.Pair[uintptr, uintptr], len(rows))
		for i, row := range rows {
			spans[i] = pair.Pair[uintptr, uintptr]{First: uintptr(len(data)), Second: uintptr(len(row[col]))}
			data = append(data, row[col]...)
		}
		offsets := make([]uintptr, len(spans))
		lengths := make([]uintptr, len(spans))
		for i, sp := range spans {
			offsets[i], lengths[i] = sp.First, sp.Second
		}
		l.dataOff, l.dataLen = a.put(data), len(data)
		l.offsOff = a.putSizes(offsets)
		l.lensOff = a.putSizes(lengths)
	}
	return l
}

func inferType(rows [][]string, col int) foreign.DataType {
	if len(rows) == 0 {
		return foreign.String
	}
	isInt, isFloat := true, true
	for _, row := range rows {
		field := strings.TrimSpace(row[col])
		if isInt {
			if _, err := strconv.ParseInt(field, 10, 32); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(field, 32); err != nil || !isDecimal(field) {
				isFloat = false
			}
		}
		if !isInt && !isFloat {
			return foreign.String
		}
	}
	if isInt {
		return foreign.Int
	}
	return foreign.Float
}

// isDecimal reports whether field is spelled with digits, sign, point and
// exponent only. ParseFloat also takes "nan", "inf" and hex floats, which
// would turn words into Float columns.
func isDecimal(field string) bool {
	return strings.Trim(field, "0123456789+-.eE") == "" && strings.ContainsAny(field, "0123456789")
}

func cString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
