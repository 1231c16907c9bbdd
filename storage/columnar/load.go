package columnar

import (
	"runtime"
	"strings"

	"github.com/pingcap/errors"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/storage/foreign"
)

type loadConfig struct {
	strict bool
}

type LoadOption func(*loadConfig)

// WithStrictContract makes Load validate the descriptors before building
// views over them.
func WithStrictContract() LoadOption {
	return func(c *loadConfig) { c.strict = true }
}

// WithTrustedContract makes Load trust the descriptors as they are.
func WithTrustedContract() LoadOption {
	return func(c *loadConfig) { c.strict = false }
}

// Load asks the producer behind b to parse the file at path and returns a
// view over the table it produced. The boundary is crossed exactly once.
// The returned view borrows the producer's memory; see the package comment.
func Load(b foreign.Boundary, path string, opts ...LoadOption) (*TableView, error) {
	cfg := loadConfig{strict: common.StrictForeignContract}
	for _, opt := range opts {
		opt(&cfg)
	}

	cpath, err := encodePath(path)
	if err != nil {
		return nil, err
	}

	common.ShPrintf(common.FOREIGN_BOUNDARY, "Load: crossing boundary for %s\n", path)
	ft, err := b.Parse(&cpath[0])
	runtime.KeepAlive(cpath)
	if err != nil {
		return nil, errors.Annotatef(err, "producer failed to parse %s", path)
	}
	common.ShPrintf(common.FOREIGN_BOUNDARY, "Load: %d columns returned for %s\n", ft.NumOfColumns, path)

	if cfg.strict {
		if err := Validate(&ft); err != nil {
			common.ShPrintf(common.WARN, "Load: %v\n", err)
			return nil, err
		}
	}
	return FromForeign(&ft), nil
}

func encodePath(path string) ([]byte, error) {
	if pos := strings.IndexByte(path, 0); pos >= 0 {
		return nil, errors.Trace(&PathEncodingError{path, pos})
	}
	cpath := make([]byte, len(path)+1)
	copy(cpath, path)
	return cpath, nil
}
