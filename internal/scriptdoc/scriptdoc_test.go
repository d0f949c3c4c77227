package scriptdoc

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestWrite(t *testing.T) {
	content := models.Content{Title: "Rivers Rising", Author: "Sam Lee", URL: "https://news.example.com/rivers"}
	slides := []models.Slide{
		{Kind: models.SlideTitle, Title: "Rivers Rising", Subtitle: "Sam Lee", Keywords: []string{"rivers", "flood"}, DurationSeconds: 4},
		{Kind: models.SlideContent, Title: "Heavy Rain", Body: "Heavy rain fell across the valley.", DurationSeconds: 3, Ordinal: 1},
		{Kind: models.SlideSummary, Title: "Key Points", Body: "Rain fell. Rivers rose.", DurationSeconds: 5},
	}

	out := filepath.Join(t.TempDir(), "script.docx")
	if err := Write(out, content, slides); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	xml := documentXML(t, out)
	for _, want := range []string{"Rivers Rising", "By Sam Lee", "Slide 2: Heavy Rain", "Heavy rain fell across the valley.", "rivers, flood", "Key Points", "3 slides, 12.0s total"} {
		if !strings.Contains(xml, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestMetadataLine(t *testing.T) {
	tests := []struct {
		name string
		in   models.Content
		want string
	}{
		{"empty", models.Content{}, ""},
		{"author only", models.Content{Author: "A"}, "By A"},
		{"all", models.Content{Author: "A", PublishDate: "2024-01-01T00:00:00Z", URL: "https://x"}, "By A | 2024-01-01T00:00:00Z | https://x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metadataLine(tt.in); got != tt.want {
				t.Errorf("metadataLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
