package abandons

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"abandon-report/core/storage"
	"abandon-report/core/tabular"

	"github.com/minio/minio-go/v7"
)

// Bucket prefixes holding each kind of input, and the published reports.
const (
	PrefixMaster       = "master/"
	PrefixReservations = "reservations/"
	PrefixTransactions = "transactions/"
	PrefixReports      = "reports/"
)

// transactionPattern selects transaction extracts inside a folder.
const transactionPattern = "*.csv"

// Source is one input file, wherever it lives.
type Source interface {
	// Name is the file name used for format detection and messages.
	Name() string
	// ID identifies the content for caching.
	ID() string
	// Open returns the file content.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource is a local file.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string { return s.Path }

// ID implements Source. It changes whenever the file is rewritten.
func (s FileSource) ID() string {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "file:" + s.Path
	}
	return fmt.Sprintf("file:%s:%d:%d", s.Path, info.Size(), info.ModTime().UnixNano())
}

// Open implements Source.
func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &tabular.LoadError{Source: s.Path, Err: tabular.ErrMissingFile}
		}
		return nil, &tabular.LoadError{Source: s.Path, Err: err}
	}
	return f, nil
}

// ObjectSource is an object in the storage bucket.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Key    string
}

// Name implements Source.
func (s ObjectSource) Name() string { return s.Key }

// ID implements Source.
func (s ObjectSource) ID() string { return "s3:" + s.Bucket + "/" + s.Key }

// Open implements Source. The object is read eagerly so that a missing key
// surfaces here rather than halfway through parsing.
func (s ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrap(err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s ObjectSource) wrap(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return &tabular.LoadError{Source: s.Key, Err: tabular.ErrMissingFile}
	}
	return &tabular.LoadError{Source: s.Key, Err: err}
}

// BytesSource is an in-memory file, typically an HTTP upload.
type BytesSource struct {
	FileName string
	Data     []byte
}

// Name implements Source.
func (s BytesSource) Name() string { return s.FileName }

// ID implements Source.
func (s BytesSource) ID() string {
	sum := sha256.Sum256(s.Data)
	return "upload:" + hex.EncodeToString(sum[:])
}

// Open implements Source.
func (s BytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// LoadTable opens src and decodes it by file extension.
func LoadTable(ctx context.Context, src Source) (*tabular.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return tabular.Read(path.Base(filepath.ToSlash(src.Name())), rc)
}

// FileSources expands transaction arguments into local sources. Each argument
// may be a file, a folder (its *.csv files) or a glob. A missing folder yields
// no files.
func FileSources(args ...string) ([]Source, error) {
	var paths []string
	for _, arg := range args {
		if arg == "" {
			continue
		}

		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid transaction pattern %q: %w", arg, err)
			}
			paths = append(paths, matches...)
			continue
		}

		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			matches, err := filepath.Glob(filepath.Join(arg, transactionPattern))
			if err != nil {
				return nil, err
			}
			paths = append(paths, matches...)
		case err != nil && filepath.Ext(arg) == "":
			// A folder that does not exist: nothing to read.
		default:
			paths = append(paths, arg)
		}
	}

	sort.Strings(paths)
	sources := make([]Source, 0, len(paths))
	for _, p := range dedupe(paths) {
		sources = append(sources, FileSource{Path: p})
	}
	return sources, nil
}

// ObjectSources lists the transaction extracts stored under prefix.
func ObjectSources(ctx context.Context, client storage.Client, bucket, prefix string) ([]Source, error) {
	keys, err := storage.ListKeys(ctx, client, bucket, prefix, ".csv")
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(keys))
	for _, k := range keys {
		sources = append(sources, ObjectSource{Client: client, Bucket: bucket, Key: k})
	}
	return sources, nil
}

// LatestObject returns the last key under prefix with one of the extensions,
// in lexical order. Date-stamped names therefore pick the newest upload.
func LatestObject(ctx context.Context, client storage.Client, bucket, prefix string, extensions ...string) (Source, error) {
	keys, err := storage.ListKeys(ctx, client, bucket, prefix, extensions...)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, &tabular.LoadError{Source: bucket + "/" + prefix, Err: tabular.ErrMissingFile}
	}
	return ObjectSource{Client: client, Bucket: bucket, Key: keys[len(keys)-1]}, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
