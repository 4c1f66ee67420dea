// Package subcollection holds the positional helpers shared by every ordered
// list embedded in a parent document: likes, comments, experience and
// education entries.
package subcollection

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFound is the position Locate reports when no entry matches.
const NotFound = -1

// Locate returns the position of the first entry whose key, stringified,
// equals target. Callers must check for NotFound before splicing.
func Locate[T any, K any](entries []T, target string, key func(T) K) int {
	for i, e := range entries {
		if fmt.Sprint(key(e)) == target {
			return i
		}
	}
	return NotFound
}

// LocateID is Locate for uuid keys. raw is parsed first, so any accepted
// uuid spelling matches and an unparsable raw is NotFound.
func LocateID[T any](entries []T, raw string, key func(T) uuid.UUID) int {
	id, err := uuid.Parse(raw)
	if err != nil {
		return NotFound
	}
	for i, e := range entries {
		if key(e) == id {
			return i
		}
	}
	return NotFound
}

// Contains reports whether some entry's key equals target.
func Contains[T any, K any](entries []T, target string, key func(T) K) bool {
	return Locate(entries, target, key) != NotFound
}

// Prepend front-inserts e, so the most recent entry sorts first.
func Prepend[T any](entries []T, e T) []T {
	out := make([]T, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}

// RemoveAt drops the entry at pos. An out-of-range pos, NotFound included,
// leaves the collection untouched.
func RemoveAt[T any](entries []T, pos int) []T {
	if pos < 0 || pos >= len(entries) {
		return entries
	}
	out := make([]T, 0, len(entries)-1)
	out = append(out, entries[:pos]...)
	return append(out, entries[pos+1:]...)
}
