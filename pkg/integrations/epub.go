package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/h2non/filetype"

	"github.com/kerbaras/mangatrack/pkg/data"
)

// EPubBuilder writes a downloaded chapter as a single EPUB file.
type EPubBuilder struct {
	outputDir string
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir}
}

// Build compiles the page images of one chapter into an EPUB, one section per
// page, and returns the written path.
func (p *EPubBuilder) Build(manga *data.Manga, chapter *data.Chapter, pages [][]byte) (string, error) {
	if manga == nil || chapter == nil {
		return "", fmt.Errorf("manga and chapter are required")
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no pages to compile")
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// go-epub copies images from disk when writing
	staging, err := os.MkdirTemp("", "mangatrack-epub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	title := chapterTitle(chapter)
	e, err := epub.NewEpub(fmt.Sprintf("%s - %s", manga.Name, title))
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}

	e.SetAuthor(manga.Source)
	if manga.Description != "" {
		e.SetDescription(manga.Description)
	}
	lang := chapter.Language
	if lang == "" {
		lang = "en"
	}
	e.SetLang(lang)

	for i, content := range pages {
		kind, err := filetype.Image(content)
		if err != nil || kind == filetype.Unknown {
			return "", fmt.Errorf("page %d is not an image", i+1)
		}

		name := fmt.Sprintf("%04d.%s", i+1, kind.Extension)
		imgPath := filepath.Join(staging, name)
		if err := os.WriteFile(imgPath, content, 0644); err != nil {
			return "", fmt.Errorf("failed to stage page %d: %w", i+1, err)
		}

		internalPath, err := e.AddImage(imgPath, name)
		if err != nil {
			return "", fmt.Errorf("failed to add image %s: %w", name, err)
		}

		body := fmt.Sprintf(`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>`, internalPath, i+1)
		if i == 0 {
			body = fmt.Sprintf("<h1>%s</h1>\n%s", title, body)
		}
		if _, err := e.AddSection(body, fmt.Sprintf("Page %d", i+1), "", ""); err != nil {
			return "", fmt.Errorf("failed to add section: %w", err)
		}
	}

	outputPath := filepath.Join(p.outputDir, sanitizeFilename(fmt.Sprintf("%s - %s", manga.Name, title))+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func chapterTitle(chapter *data.Chapter) string {
	title := "Oneshot"
	if chapter.Number != "" {
		title = fmt.Sprintf("Chapter %s", chapter.Number)
	}
	if chapter.Volume != "" && chapter.Volume != "0" {
		title = fmt.Sprintf("Vol. %s, %s", chapter.Volume, title)
	}
	if chapter.Title != "" {
		title = fmt.Sprintf("%s: %s", title, chapter.Title)
	}
	return title
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
