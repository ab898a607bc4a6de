// Package abandons builds the abandoned-passenger compensation report.
//
// It loads the compensation master, the reservation log and any number of
// transaction extracts from local files, uploads or the storage bucket, maps
// their messy headers onto fixed fields and hands the records to the reconcile
// engine. Runs can be archived to the database, whose case numbers then act as
// the prior set for incremental reports, and published to the bucket.
//
// # HTTP Endpoints
//
//   - POST /abandons/report : Builds a report from a multipart upload and returns the file.
//   - POST /abandons/summary : Same input, returns only the run summary.
//   - GET /abandons/runs : Lists archived runs.
package abandons
