// Package store owns the load, mutate and save cycle over a task file.
//
// Every operation reads the whole collection from its Backend, applies one
// change or query, and for mutations writes the whole collection back. The
// Backend also provides an exclusive lock held for the duration of each
// cycle, so two processes never interleave a read and a write.
//
// Ensure must run before the first operation against a new or damaged file:
//
//	s := store.New(store.NewFileBackend("tasks.json"))
//	report, err := s.Ensure()
//	...
//	t, err := s.Add("buy milk")
//
// A file that cannot be decoded as a collection (empty, not JSON, or not a
// list) is reset to an empty list. Problems inside a list are reported in
// EnsureReport.Diagnostics and left in place. Duplicate ids or an unknown
// status do not block operations. A list element that is not a task object
// is skipped by List, and mutations fail with ErrUndecodableRecords until
// the file is fixed, since rewriting it would drop that element.
package store
