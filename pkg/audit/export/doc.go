// Package export writes audit records to portable formats (JSON, CSV) for
// offline review and compliance hand-off.
package export
