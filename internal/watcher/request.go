package watcher

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
	"github.com/nguyentantai21042004/slidecast/internal/source"
)

var requestExtensions = []string{".txt", ".url", ".pdf", ".json"}

func isRequestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range requestExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseRequest reads a request file:
//
//	.txt   first line is the title, the rest is the article text
//	.url   the first non-empty line is the article URL
//	.pdf   the document itself
//	.json  a full request object
func ParseRequest(path string) (pipeline.Request, error) {
	var req pipeline.Request

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		req.PDFPath = path

	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return req, err
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse json request: %w", err)
		}

	case ".url":
		line, err := firstLine(path)
		if err != nil {
			return req, err
		}
		req.URL = line

	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return req, err
		}
		title, body, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
		if strings.TrimSpace(body) == "" {
			req.Request = source.Request{Text: title}
		} else {
			req.Request = source.Request{Title: strings.TrimSpace(title), Text: strings.TrimSpace(body)}
		}

	default:
		return req, fmt.Errorf("unsupported request file %s", filepath.Base(path))
	}

	return req, req.Validate()
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	return "", sc.Err()
}
