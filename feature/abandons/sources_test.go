package abandons_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"abandon-report/core/storage/mocks"
	"abandon-report/core/tabular"
	"abandon-report/feature/abandons"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sourceNames(sources []abandons.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = filepath.Base(s.Name())
	}
	return names
}

func TestFileSources(t *testing.T) {
	in := writeInputs(t)

	t.Run("folder keeps csv files", func(t *testing.T) {
		sources, err := abandons.FileSources(in.transactions)
		require.NoError(t, err)
		assert.Equal(t, []string{"broken.csv", "tx1.csv"}, sourceNames(sources))
	})

	t.Run("glob", func(t *testing.T) {
		sources, err := abandons.FileSources(filepath.Join(in.transactions, "tx*.csv"))
		require.NoError(t, err)
		assert.Equal(t, []string{"tx1.csv"}, sourceNames(sources))
	})

	t.Run("duplicates removed", func(t *testing.T) {
		tx := filepath.Join(in.transactions, "tx1.csv")
		sources, err := abandons.FileSources(tx, tx, "")
		require.NoError(t, err)
		assert.Len(t, sources, 1)
	})

	t.Run("missing folder is empty", func(t *testing.T) {
		sources, err := abandons.FileSources(filepath.Join(in.dir, "nowhere"))
		require.NoError(t, err)
		assert.Empty(t, sources)
	})

	t.Run("missing file is kept for reporting", func(t *testing.T) {
		sources, err := abandons.FileSources(filepath.Join(in.dir, "gone.csv"))
		require.NoError(t, err)
		require.Len(t, sources, 1)

		_, err = abandons.LoadTable(context.Background(), sources[0])
		assert.True(t, errors.Is(err, tabular.ErrMissingFile))
	})
}

func TestLoadTable_File(t *testing.T) {
	in := writeInputs(t)

	table, err := abandons.LoadTable(context.Background(), abandons.FileSource{Path: in.reservations})
	require.NoError(t, err)
	assert.Equal(t, []string{"id_reservation_id", "tm_start_local_at"}, table.Header)
	assert.Equal(t, 1, table.Len())
}

func TestFileSourceID(t *testing.T) {
	in := writeInputs(t)
	before := abandons.FileSource{Path: in.reservations}.ID()

	writeFile(t, in.reservations, reservationsCSV+"56;02-03-2025 9:00:00\n")
	after := abandons.FileSource{Path: in.reservations}.ID()

	assert.NotEqual(t, before, after)
}

func TestBytesSourceID(t *testing.T) {
	a := abandons.BytesSource{FileName: "r.csv", Data: []byte("a")}
	b := abandons.BytesSource{FileName: "r.csv", Data: []byte("b")}
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), abandons.BytesSource{FileName: "other.csv", Data: []byte("a")}.ID())
}

func TestObjectSource(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "reports", "reservations/r.csv", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(reservationsCSV))), nil)
	client.On("GetObject", mock.Anything, "reports", "reservations/missing.csv", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})

	table, err := abandons.LoadTable(context.Background(), abandons.ObjectSource{Client: client, Bucket: "reports", Key: "reservations/r.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = abandons.LoadTable(context.Background(), abandons.ObjectSource{Client: client, Bucket: "reports", Key: "reservations/missing.csv"})
	assert.True(t, errors.Is(err, tabular.ErrMissingFile))

	client.AssertExpectations(t)
}

func TestObjectSources(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "reports", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == abandons.PrefixTransactions && opts.Recursive
	})).Return(mocks.ObjectChannel(
		"transactions/",
		"transactions/b.CSV",
		"transactions/a.csv",
		"transactions/readme.txt",
	))

	sources, err := abandons.ObjectSources(context.Background(), client, "reports", abandons.PrefixTransactions)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.CSV"}, sourceNames(sources))
}

func TestLatestObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(mocks.ObjectChannel("master/2025-01.xlsx", "master/2025-03.xlsx", "master/2025-02.xlsx")).Once()
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(mocks.ObjectChannel()).Once()

	src, err := abandons.LatestObject(context.Background(), client, "reports", abandons.PrefixMaster, ".xlsx", ".csv")
	require.NoError(t, err)
	assert.Equal(t, "master/2025-03.xlsx", src.Name())

	_, err = abandons.LatestObject(context.Background(), client, "reports", abandons.PrefixMaster)
	assert.True(t, errors.Is(err, tabular.ErrMissingFile))
}
