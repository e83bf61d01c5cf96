package writer

import (
	"context"
	"fmt"

	"github.com/travigo/agencyfeed/pkg/appdata"
)

const (
	FormatResource = "resource"
	FormatJSON     = "json"
)

type Writer interface {
	Write(ctx context.Context, dataset *appdata.Dataset) error
}

// New returns the file writer for format.
func New(format string, directory string, prefix string, detailed bool) (Writer, error) {
	switch format {
	case FormatResource:
		return &ResourceWriter{Directory: directory, Prefix: prefix}, nil
	case FormatJSON:
		return &JSONWriter{Directory: directory, Prefix: prefix, Detailed: detailed}, nil
	}

	return nil, fmt.Errorf("unknown output format %q", format)
}
