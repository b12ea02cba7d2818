package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Velmurugan2695/document-question-answer/internal/models"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
)

// DetectFormat maps a filename extension to a supported format.
func DetectFormat(filename string) (models.Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return models.FormatPDF, nil
	case ".docx":
		return models.FormatDOCX, nil
	case ".eml":
		return models.FormatEML, nil
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// ReadDocument buffers the whole upload and extracts its text. The reader is
// consumed exactly once; later stages only see the buffered copy.
func ReadDocument(filename string, r io.Reader) (*models.Document, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	text, err := extract(format, data)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("filename", filename).Str("format", string(format)).Int("bytes", len(data)).Int("chars", len(text)).Msg("Extracted document text")

	return &models.Document{
		Filename: filename,
		Format:   format,
		Data:     data,
		Text:     text,
	}, nil
}

// Extract returns the plain text of an in-memory file.
func Extract(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}
	return extract(format, data)
}

func extract(format models.Format, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case models.FormatPDF:
		text, err = parsePDF(data)
	case models.FormatDOCX:
		text, err = parseDOCX(data)
	case models.FormatEML:
		text, err = parseEML(data)
	default:
		return "", &UnsupportedFormatError{Ext: "." + string(format)}
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", &UnsupportedContentError{Format: string(format), Reason: "no extractable text"}
	}
	return text, nil
}

func parsePDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create pdf reader: %w", err)
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Int("page", i).Msg("Skipping pdf page without text")
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func parseDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer r.Close()

	paragraphs, err := docxParagraphs(r.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks word/document.xml and returns the text of every
// non-empty w:p element in document order.
func docxParagraphs(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse docx body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current.Reset()
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if p := strings.TrimSpace(current.String()); p != "" {
					paragraphs = append(paragraphs, p)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// parseEML returns the inline text/plain parts of an email. HTML-only mail is
// rejected rather than down-converted.
func parseEML(data []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(data))
	if err != nil && (mr == nil || !message.IsUnknownCharset(err)) {
		return "", fmt.Errorf("failed to read email: %w", err)
	}

	var bodies []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && (p == nil || !message.IsUnknownCharset(err)) {
			return "", fmt.Errorf("failed to read email part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		if !isPlainText(h) {
			continue
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read email body: %w", err)
		}
		if s := strings.TrimSpace(string(body)); s != "" {
			bodies = append(bodies, s)
		}
	}

	if len(bodies) == 0 {
		return "", &UnsupportedContentError{Format: string(models.FormatEML), Reason: "no plain-text body"}
	}
	return strings.Join(bodies, "\n"), nil
}

func isPlainText(h *mail.InlineHeader) bool {
	// RFC 2045: a part without Content-Type is text/plain
	if h.Get("Content-Type") == "" {
		return true
	}
	ct, _, err := h.ContentType()
	if err != nil {
		return false
	}
	return ct == "text/plain"
}
