package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr errors: the message without the wrapped chain.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain as shown to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the zerr chain. The first non-zerr error ends the
// walk with its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}
		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders the entries as "Error:" followed by a "Caused by:" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		first, rest := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first, rest = "    → ", "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, rest+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", rest, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

// liftGeneration removes the outermost render generation from the entries'
// metadata so it can be logged as an attribute instead.
func liftGeneration(entries []ErrorEntry) (any, bool) {
	for i := range entries {
		if gen, ok := entries[i].Metadata[AttrGeneration]; ok {
			md := maps.Clone(entries[i].Metadata)
			delete(md, AttrGeneration)
			entries[i].Metadata = md
			return gen, true
		}
	}
	return nil, false
}
