// utils/folio.go
package utils

import (
	"fmt"
	"time"
)

// NewFolio builds the human-facing note identifier, NV-<unix ms>.
// Two notes created within the same millisecond would collide; the
// scheme carries that known risk.
func NewFolio(now time.Time) string {
	return fmt.Sprintf("NV-%d", now.UnixMilli())
}

// ArchiveKey derives the object-storage key for a note's rendered
// document. It is a pure function of the customer tax id and the
// folio, so it can always be recomputed from the stored note. Neither
// input may contain the path separator.
func ArchiveKey(taxID, folio string) string {
	return taxID + "/" + folio + ".pdf"
}

// ArchiveFilename is the download filename suggested to the client.
func ArchiveFilename(folio string) string {
	return folio + ".pdf"
}
