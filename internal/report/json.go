package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ShayCichocki/council/pkg/models"
)

// WriteJSON writes the report as indented JSON followed by a newline.
func WriteJSON(w io.Writer, rep *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
