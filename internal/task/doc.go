// Package task defines task records, the on-disk collection format, and
// validation of task files.
//
// A task file is a JSON array of task objects:
//
//	[
//	    {
//	        "id": 1,
//	        "description": "buy milk",
//	        "status": "todo",
//	        "createdAt": "2024-05-01 09:30:00",
//	        "updatedAt": "2024-05-01 09:30:00"
//	    }
//	]
//
// # Status Values
//
//   - "todo": not started (default for new tasks)
//   - "in-progress": being worked on
//   - "done": complete
//
// # Timestamps
//
// Timestamps are local time with second precision, written as
// "YYYY-MM-DD HH:MM:SS". A timestamp that fails to parse is kept verbatim
// so that saving the file does not rewrite it; validation reports it.
//
// # File Format
//
// When writing task files, the package uses:
//   - 4-space indentation
//   - Trailing newline
//   - Stable key order: id, description, status, createdAt, updatedAt
//
// # Validation
//
// Validate checks raw file contents against the embedded JSON Schema
// (draft 2020-12) or a schema file supplied by the caller, then checks
// the invariants a schema cannot express: unique ids and
// updatedAt not before createdAt.
package task
