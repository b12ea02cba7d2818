package parser

import "fmt"

// UnsupportedFormatError is returned for file extensions the extractor does not handle.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Ext)
}

// UnsupportedContentError is returned when a recognised format yields no usable text.
type UnsupportedContentError struct {
	Format string
	Reason string
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("unsupported %s content: %s", e.Format, e.Reason)
}

// InvalidChunkConfigError is returned when the chunk window could not advance.
type InvalidChunkConfigError struct {
	ChunkSize int
	Overlap   int
}

func (e *InvalidChunkConfigError) Error() string {
	return fmt.Sprintf("invalid chunk config: chunk size %d, overlap %d (need 0 <= overlap < chunk size)", e.ChunkSize, e.Overlap)
}
