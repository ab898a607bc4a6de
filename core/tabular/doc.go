// Package tabular is the file boundary of the report pipeline.
//
// It reads delimited text and spreadsheets into a Table of trimmed string cells,
// resolves messy real-world headers to canonical field names once at load time,
// and writes the final report as CSV (UTF-8 with BOM) or XLSX.
//
// # Reading
//
//   - CSV: encoding detected (UTF-8 with or without BOM, UTF-16 with BOM, otherwise
//     Windows-1252); delimiter is comma, falling back to semicolon when fewer than two
//     columns result.
//   - XLSX: the first sheet, formatted cell values.
//   - Cells holding an NA token (NaN, NULL, N/A, ...) read as empty.
//
// # Column Resolution
//
// A Schema maps each canonical Column to a header index. Exact names are matched
// first; unresolved columns then fall back to the first unclaimed header containing
// one of their substrings. Matching ignores case, accents and repeated whitespace.
// A required column that cannot be resolved is a LoadError wrapping ErrMissingColumn.
package tabular
