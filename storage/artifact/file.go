package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/slices"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/storage"
)

const (
	ExtJSON     = ".json"
	ExtJSONZstd = ".json.zst"
	ExtJSONGzip = ".json.gz"
)

// Extensions lists the supported artifact encodings, by order of preference
// when several files exist for the same replica.
var Extensions = []string{ExtJSON, ExtJSONZstd, ExtJSONGzip}

var fileNamePattern = regexp.MustCompile(`^benchmark_result_([0-9]+)(\.json(?:\.zst|\.gz)?)$`)

// FileName returns the name of the uncompressed artifact of a replica.
func FileName(replica bench.ReplicaID) string {
	return fmt.Sprintf("benchmark_result_%d%s", replica, ExtJSON)
}

// ParseFileName returns the replica whose artifact is stored under the given
// file name, and whether the name is an artifact name at all.
func ParseFileName(name string) (bench.ReplicaID, bool) {
	replica, _, ok := parseFileName(name)
	return replica, ok
}

func parseFileName(name string) (bench.ReplicaID, string, bool) {
	match := fileNamePattern.FindStringSubmatch(filepath.Base(name))
	if match == nil {
		return 0, "", false
	}
	replica, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return 0, "", false
	}
	return bench.ReplicaID(replica), match[2], true
}

// Discover finds the artifacts of replicas 1 to n in dir. Replicas without
// an artifact are not part of the result.
//
// Expected errors:
//   - storage.ErrNotFound if dir does not exist
func Discover(dir string, n uint) (map[bench.ReplicaID]string, error) {
	files, err := storage.CheckFolder(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list artifacts: %w", err)
	}

	found := make(map[bench.ReplicaID]string)
	rank := make(map[bench.ReplicaID]int)
	for _, name := range files {
		replica, ext, ok := parseFileName(name)
		if !ok || replica < 1 || uint(replica) > n {
			continue
		}
		r := slices.Index(Extensions, ext)
		if existing, ok := rank[replica]; ok && existing <= r {
			continue
		}
		found[replica] = filepath.Join(dir, name)
		rank[replica] = r
	}
	return found, nil
}

// Open opens an artifact file, decompressing it according to its extension.
//
// Expected errors:
//   - storage.ErrNotFound if the file does not exist
//   - storage.ErrUnsupportedFormat if the extension is not known
func Open(path string) (io.ReadCloser, error) {
	var decompress func(io.Reader) (io.ReadCloser, error)
	switch {
	case strings.HasSuffix(path, ExtJSONZstd):
		decompress = func(r io.Reader) (io.ReadCloser, error) {
			decoder, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return decoder.IOReadCloser(), nil
		}
	case strings.HasSuffix(path, ExtJSONGzip):
		decompress = func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		}
	case strings.HasSuffix(path, ExtJSON):
	default:
		return nil, fmt.Errorf("artifact %s: %w", path, storage.ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("artifact %s: %w", path, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open artifact %s: %w", path, err)
	}
	if decompress == nil {
		return f, nil
	}

	r, err := decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not decompress artifact %s: %w", path, err)
	}
	return &readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// readCloser closes the decompressor before the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
