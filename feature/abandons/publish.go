package abandons

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"abandon-report/core/reconcile"
	"abandon-report/core/storage"
	"abandon-report/core/tabular"

	"github.com/minio/minio-go/v7"
)

var contentTypes = map[tabular.Format]string{
	tabular.FormatCSV:  "text/csv; charset=utf-8",
	tabular.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentType returns the MIME type of a report format.
func ContentType(format tabular.Format) string {
	return contentTypes[format]
}

// WriteReport encodes rows with the report header.
func WriteReport(w io.Writer, format tabular.Format, rows []reconcile.Row) error {
	return tabular.Write(w, format, reconcile.Header(), reconcile.Values(rows))
}

// EncodeReport returns rows encoded in format.
func EncodeReport(format tabular.Format, rows []reconcile.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, format, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Publisher uploads reports to the bucket under reports/<run id>/.
type Publisher struct {
	client storage.Client
	bucket string
}

// NewPublisher creates a publisher.
func NewPublisher(client storage.Client, bucket string) *Publisher {
	return &Publisher{client: client, bucket: bucket}
}

// Publish uploads rows as fileName under the run's folder and returns the key.
func (p *Publisher) Publish(ctx context.Context, runID, fileName string, rows []reconcile.Row) (string, error) {
	format, err := tabular.FormatFromName(fileName)
	if err != nil {
		return "", err
	}

	data, err := EncodeReport(format, rows)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	key := PrefixReports + runID + "/" + path.Base(fileName)
	_, err = p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(format),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
