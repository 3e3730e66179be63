// Package source opens graph and community inputs from local files or S3,
// decompressing snappy-encoded objects on the way.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
	"github.com/dd0wney/cluso-polarity/pkg/validation"
)

// Compressed file suffixes. ".sz" is the snappy framing format, ".snappy"
// a single snappy block.
const (
	SuffixFramed = ".sz"
	SuffixBlock  = ".snappy"
)

// maxBlockSize bounds the size of a ".snappy" input read into memory.
const maxBlockSize = 512 << 20

var (
	// ErrUnsupportedScheme is returned for URIs that are neither local
	// paths, file:// nor s3://.
	ErrUnsupportedScheme = errors.New("source: unsupported scheme")

	// ErrNotFound is returned when the file or object does not exist.
	ErrNotFound = errors.New("source: not found")
)

// Location is a parsed input URI.
type Location struct {
	Scheme string // "file" or "s3"
	Bucket string // s3 only
	Path   string // local path or object key
}

// String renders the location back as a URI.
func (l Location) String() string {
	if l.Scheme == "s3" {
		return "s3://" + l.Bucket + "/" + l.Path
	}
	return l.Path
}

// Parse validates uri and splits it into a Location. A string without a
// scheme is a local path.
func Parse(uri string) (Location, error) {
	if err := validation.ValidateSourceURI(uri); err != nil {
		if u, perr := url.Parse(uri); perr == nil && strings.Contains(uri, "://") && u.Scheme != "file" && u.Scheme != "s3" {
			return Location{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri)
		}
		return Location{}, err
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: "file", Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, err
	}
	if u.Scheme == "file" {
		return Location{Scheme: "file", Path: u.Path}, nil
	}
	return Location{Scheme: "s3", Bucket: u.Host, Path: strings.TrimPrefix(u.Path, "/")}, nil
}

// Opener opens inputs by URI.
type Opener struct {
	s3 ObjectStore
}

// NewOpener returns an Opener that uses store for s3:// URIs. store may be
// nil when only local inputs are read.
func NewOpener(store ObjectStore) *Opener {
	return &Opener{s3: store}
}

// Open returns the decompressed contents of uri. The caller closes the
// reader.
func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	switch loc.Scheme {
	case "s3":
		if o.s3 == nil {
			return nil, fmt.Errorf("source: %s: no object store configured", loc)
		}
		rc, err = o.s3.Get(ctx, loc.Bucket, loc.Path)
	default:
		rc, err = os.Open(loc.Path)
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s: %w", ErrNotFound, loc, err)
		}
	}
	if err != nil {
		return nil, err
	}
	return decompress(loc.Path, rc)
}

// decompress wraps rc according to the suffix of name.
func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, SuffixFramed):
		return &readCloser{Reader: snappy.NewReader(rc), closer: rc}, nil
	case strings.HasSuffix(name, SuffixBlock):
		defer rc.Close()
		compressed, err := io.ReadAll(io.LimitReader(rc, maxBlockSize+1))
		if err != nil {
			return nil, fmt.Errorf("source: read %s: %w", name, err)
		}
		if len(compressed) > maxBlockSize {
			return nil, fmt.Errorf("source: %s exceeds %d bytes", name, maxBlockSize)
		}
		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, fmt.Errorf("source: decompress %s: %w", name, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	default:
		return rc, nil
	}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error { return r.closer.Close() }

// LoadGraph reads an edge list from uri.
func (o *Opener) LoadGraph(ctx context.Context, uri string, directed bool) (*graph.Graph, error) {
	rc, err := o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return graph.ReadEdgeList(rc, graph.EdgeListOptions{Source: uri, Directed: directed})
}

// LoadCommunities reads a community file from uri.
func (o *Opener) LoadCommunities(ctx context.Context, uri string) (partition.CommunityList, error) {
	rc, err := o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return partition.ReadCommunityFile(rc, uri)
}

// Put writes data to uri, snappy-compressing it when the name asks for it.
// Local parent directories must exist.
func (o *Opener) Put(ctx context.Context, uri string, data []byte) error {
	loc, err := Parse(uri)
	if err != nil {
		return err
	}

	switch {
	case strings.HasSuffix(loc.Path, SuffixFramed):
		var buf bytes.Buffer
		w := snappy.NewBufferedWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	case strings.HasSuffix(loc.Path, SuffixBlock):
		data = snappy.Encode(nil, data)
	}

	if loc.Scheme == "s3" {
		if o.s3 == nil {
			return fmt.Errorf("source: %s: no object store configured", loc)
		}
		return o.s3.Put(ctx, loc.Bucket, loc.Path, data)
	}
	return os.WriteFile(loc.Path, data, 0o644)
}
