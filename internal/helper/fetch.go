package helper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

var knownExtensions = map[string]bool{".pdf": true, ".docx": true, ".eml": true}

// FetchDocument downloads a document for the batch API and returns a
// filename whose extension names its format. When the URL path carries no
// known extension the content is sniffed instead.
func FetchDocument(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) (string, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid document url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("invalid document url: unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("failed to download document: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", nil, fmt.Errorf("document larger than %d bytes", maxBytes)
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" {
		filename = "document"
	}
	if !knownExtensions[strings.ToLower(path.Ext(filename))] {
		mt := mimetype.Detect(data)
		log.Debug().Str("url_path", u.Path).Str("mime", mt.String()).Msg("Sniffed document type")
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + mt.Extension()
	}
	return filename, data, nil
}
