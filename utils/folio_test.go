// utils/folio_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFolio(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "NV-1700000000123", NewFolio(now))
	assert.Regexp(t, `^NV-\d+$`, NewFolio(time.Now()))
}

func TestArchiveKeyIsPureFunctionOfNoteFields(t *testing.T) {
	key := ArchiveKey("AAA010101AAA", "NV-1700000000123")
	assert.Equal(t, "AAA010101AAA/NV-1700000000123.pdf", key)

	// re-deriving from the same stored fields always yields the same key
	assert.Equal(t, key, ArchiveKey("AAA010101AAA", "NV-1700000000123"))
}

func TestArchiveFilename(t *testing.T) {
	assert.Equal(t, "NV-1700000000123.pdf", ArchiveFilename("NV-1700000000123"))
}
