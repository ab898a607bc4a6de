package checks

import (
	"context"
	"testing"

	"abandon-report/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func onPrefix(client *mocks.Client, prefix string, keys ...string) {
	client.On("ListObjects", mock.Anything, "reports", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == prefix
	})).Return(mocks.ObjectChannel(keys...))
}

func TestCheckInputs(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		client := new(mocks.Client)
		onPrefix(client, "master/", "master/", "master/2025-01.xlsx", "master/2025-02.xlsx")
		onPrefix(client, "reservations/", "reservations/full.csv")
		onPrefix(client, "transactions/", "transactions/b.csv", "transactions/a.csv", "transactions/readme.txt")

		report, err := CheckInputs(context.Background(), client, "reports")
		require.NoError(t, err)
		assert.True(t, report.Ready)
		assert.Equal(t, "master/2025-02.xlsx", report.Master)
		assert.Equal(t, "reservations/full.csv", report.Reservations)
		assert.Equal(t, []string{"transactions/a.csv", "transactions/b.csv"}, report.Transactions)
		assert.Empty(t, report.Missing)
	})

	t.Run("Missing reservations", func(t *testing.T) {
		client := new(mocks.Client)
		onPrefix(client, "master/", "master/m.csv")
		onPrefix(client, "reservations/")
		onPrefix(client, "transactions/")

		report, err := CheckInputs(context.Background(), client, "reports")
		require.NoError(t, err)
		assert.False(t, report.Ready)
		assert.Equal(t, []string{"reservations/"}, report.Missing)
		assert.Empty(t, report.Transactions)
	})
}
