package columnar

import (
	"unicode/utf8"
	"unsafe"

	"github.com/pingcap/errors"
	"github.com/ryogrid/QueryCore/storage/foreign"
)

// Validate checks what can be checked of the boundary contract without
// knowing buffer sizes: known type tags, no nil array behind a non-zero
// count, aligned numeric buffers, no overflowing string ranges and UTF-8
// names and strings. A descriptor which passes can still lie about its
// counts.
func Validate(ft *foreign.TableView) error {
	if ft.Columns == nil && ft.NumOfColumns > 0 {
		return errors.Trace(violation(-1, -1, -1, -1, "nil columns array with non-zero count"))
	}
	fcols := unsafe.Slice(ft.Columns, ft.NumOfColumns)
	for i := range fcols {
		if err := validateColumn(i, &fcols[i]); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func validateColumn(col int, fc *foreign.ColumnView) error {
	if fc.Name == nil && fc.NameLen > 0 {
		return violation(col, -1, -1, -1, "nil name with non-zero length")
	}
	if !utf8.ValidString(borrowString(fc.Name, fc.NameLen)) {
		return violation(col, -1, -1, -1, "name is not valid UTF-8")
	}
	if !fc.DataType.IsValid() {
		return violation(col, -1, -1, -1, "unknown data type tag "+fc.DataType.String())
	}
	if fc.Chunks == nil && fc.NumOfChunks > 0 {
		return violation(col, -1, -1, -1, "nil chunks array with non-zero count")
	}
	fchunks := unsafe.Slice(fc.Chunks, fc.NumOfChunks)
	for i := range fchunks {
		if fchunks[i].SubChunks == nil && fchunks[i].NumOfSubChunks > 0 {
			return violation(col, i, -1, -1, "nil sub-chunks array with non-zero count")
		}
		fsubs := unsafe.Slice(fchunks[i].SubChunks, fchunks[i].NumOfSubChunks)
		for j := range fsubs {
			var err error
			if fc.DataType == foreign.String {
				err = validateStringSubChunk(col, i, j, &fsubs[j])
			} else {
				err = validateNumericSubChunk(col, i, j, &fsubs[j])
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNumericSubChunk(col, chunk, sub int, fsc *foreign.SubChunkView) error {
	if fsc.NumOfItems == 0 {
		return nil
	}
	if fsc.Data == nil {
		return violation(col, chunk, sub, -1, "nil data with non-zero item count")
	}
	// int32 and float32 are both 4 bytes wide
	if uintptr(unsafe.Pointer(fsc.Data))%4 != 0 {
		return violation(col, chunk, sub, -1, "data is not 4 byte aligned")
	}
	return nil
}

func validateStringSubChunk(col, chunk, sub int, fsc *foreign.SubChunkView) error {
	if fsc.NumOfItems == 0 {
		return nil
	}
	if fsc.Offsets == nil || fsc.Lengths == nil {
		return violation(col, chunk, sub, -1, "nil offsets or lengths with non-zero item count")
	}
	offsets := unsafe.Slice(fsc.Offsets, fsc.NumOfItems)
	lengths := unsafe.Slice(fsc.Lengths, fsc.NumOfItems)
	for k := range offsets {
		if lengths[k] == 0 {
			continue
		}
		if fsc.Data == nil {
			return violation(col, chunk, sub, k, "nil data behind a non-empty item")
		}
		if offsets[k]+lengths[k] < offsets[k] {
			return violation(col, chunk, sub, k, "offset plus length overflows")
		}
		s := unsafe.String((*byte)(unsafe.Add(unsafe.Pointer(fsc.Data), offsets[k])), lengths[k])
		if !utf8.ValidString(s) {
			return violation(col, chunk, sub, k, "item is not valid UTF-8")
		}
	}
	return nil
}
