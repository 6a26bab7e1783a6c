package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendJSONLAndReadBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.jsonl")
	s := New(nil)

	require.NoError(t, s.AppendJSONL(context.Background(), path, sample{Name: "a"}, "owner"))
	require.NoError(t, s.AppendJSONL(context.Background(), path, sample{Name: "b"}, "owner"))

	entries, err := s.ReadLogEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var first sample
	require.NoError(t, json.Unmarshal(entries[0], &first))
	require.Equal(t, "a", first.Name)
}

func TestReadLogEntriesMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(nil)
	entries, err := s.ReadLogEntries(filepath.Join(dir, "missing.jsonl"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestParseLogEntriesPureJSONL(t *testing.T) {
	data := []byte("{\"name\":\"a\"}\n{\"name\":\"b\"}\n")
	entries := ParseLogEntries(data)
	require.Len(t, entries, 2)
}

func TestParseLogEntriesWrapperShape(t *testing.T) {
	data := []byte(`{"entries":[{"name":"a"},{"name":"b"}]}`)
	entries := ParseLogEntries(data)
	require.Len(t, entries, 2)
}

func TestParseLogEntriesHybridShape(t *testing.T) {
	data := []byte("{\"entries\":[{\"name\":\"a\"}]}\n{\"name\":\"b\"}\n")
	entries := ParseLogEntries(data)
	require.Len(t, entries, 2)
}

func TestParseLogEntriesSkipsCorruptLine(t *testing.T) {
	data := []byte("{\"name\":\"a\"}\nnot json\n{\"name\":\"b\"}\n")
	entries := ParseLogEntries(data)
	require.Len(t, entries, 2)
}

func TestParseLogEntriesStringsWithBracesAreSkippedCorrectly(t *testing.T) {
	data := []byte(`{"entries":[{"name":"a{b}c"}]}` + "\n{\"name\":\"d\"}\n")
	entries := ParseLogEntries(data)
	require.Len(t, entries, 2)
	var first sample
	require.NoError(t, json.Unmarshal(entries[0], &first))
	require.Equal(t, "a{b}c", first.Name)
}
