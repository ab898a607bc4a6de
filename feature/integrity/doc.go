// Package integrity provides health checks of the report infrastructure.
//
// # Checks Provided
//
//   - Structure: Checks that the bucket holds the master/, reservations/,
//     transactions/ and reports/ folders.
//   - Inputs: Resolves the latest master and reservations extracts and lists
//     the transaction extracts a storage-backed run would read.
//   - Archive: Validates that the report archive tables carry every expected column.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/inputs : Runs inputs check.
//   - GET /integrity/archive : Runs archive schema check.
package integrity
