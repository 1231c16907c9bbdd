package columnar

import "fmt"

// PathEncodingError is returned when a path can not be passed across the
// boundary as a NUL terminated string.
type PathEncodingError struct {
	Path string
	// byte index of the first NUL
	Pos int
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("path %q contains a NUL byte at offset %d", e.Path, e.Pos)
}

// ForeignContractViolation reports descriptors which break the boundary
// contract. It is only produced when the contract is validated; trusted
// loads never look for these.
type ForeignContractViolation struct {
	Column   int
	Chunk    int
	SubChunk int
	Item     int
	Reason   string
}

func (e *ForeignContractViolation) Error() string {
	loc := "table"
	if e.Column >= 0 {
		loc = fmt.Sprintf("column %d", e.Column)
	}
	if e.Chunk >= 0 {
		loc += fmt.Sprintf(" chunk %d", e.Chunk)
	}
	if e.SubChunk >= 0 {
		loc += fmt.Sprintf(" sub-chunk %d", e.SubChunk)
	}
	if e.Item >= 0 {
		loc += fmt.Sprintf(" item %d", e.Item)
	}
	return "foreign contract violation at " + loc + ": " + e.Reason
}

func violation(col, chunk, sub, item int, reason string) *ForeignContractViolation {
	return &ForeignContractViolation{col, chunk, sub, item, reason}
}
