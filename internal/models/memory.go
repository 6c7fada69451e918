package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// A pin's notes column holds either free text or an encoded memory list.
// The two are distinguished only by this prefix; callers must check for it
// before treating notes as plain text.
const MemoryNotesSentinel = "__MEMORIES__:"

type MemoryType string

const (
	MemoryTypeText  MemoryType = "text"
	MemoryTypeImage MemoryType = "image"
)

type MemoryEntry struct {
	Type    MemoryType `json:"type"`
	Content string     `json:"content"`
}

// EncodeMemoryNotes serializes entries, preserving order, into the
// sentinel-prefixed form stored in the notes column.
func EncodeMemoryNotes(entries []MemoryEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding memories: %w", err)
	}
	return MemoryNotesSentinel + string(data), nil
}

// DecodeMemoryNotes parses a notes value. ok is false when notes is plain
// text (no sentinel); an error means the sentinel was present but the
// remainder was not a valid memory list.
func DecodeMemoryNotes(notes string) (entries []MemoryEntry, ok bool, err error) {
	if !strings.HasPrefix(notes, MemoryNotesSentinel) {
		return nil, false, nil
	}
	raw := strings.TrimPrefix(notes, MemoryNotesSentinel)
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, true, fmt.Errorf("decoding memories: %w", err)
	}
	return entries, true, nil
}
