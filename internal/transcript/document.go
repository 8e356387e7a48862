package transcript

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fumiama/go-docx"

	"fetchd/internal/media"
)

// WriteDocument renders cues into a Word document at path: a bold
// "Transcript" heading, a spacer paragraph, then one paragraph per cue
// with a bold clock-range prefix and the cue body in regular weight.
func WriteDocument(cues []media.Cue, path string) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Transcript").Size("32").Bold()
	doc.AddParagraph()

	for _, cue := range cues {
		para := doc.AddParagraph()
		para.AddText(FormatCueSpan(cue)).Bold()
		para.AddText(cue.Text)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if _, err := doc.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("write document: %w", err)
	}
	return file.Close()
}
