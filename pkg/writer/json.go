package writer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/appdata"
)

const DatasetFile = "dataset.json"

// JSONWriter writes the whole dataset as one JSON document. Schedules are
// only included when Detailed is set.
type JSONWriter struct {
	Directory string
	Prefix    string
	Detailed  bool
}

func (w *JSONWriter) Write(ctx context.Context, dataset *appdata.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.Directory, 0o755); err != nil {
		return err
	}

	view := *dataset
	if !w.Detailed {
		view.Schedules = nil
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(w.Directory, w.Prefix+DatasetFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.Info().Str("file", path).Bool("detailed", w.Detailed).Msg("Wrote dataset")

	return nil
}
