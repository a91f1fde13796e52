package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type, please upload a PDF or text file")
	ErrRead            = errors.New("error reading file")
)

type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ContentType resolves the media type of f, falling back to the file
// extension when the declared type is missing or generic.
func ContentType(f File) string {
	declared := strings.TrimSpace(f.ContentType)
	if len(declared) > 0 {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			declared = strings.ToLower(mediaType)
		}
	}

	if len(declared) > 0 && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".pdf":
		return ContentTypePDF
	case ".txt", ".text", ".md":
		return ContentTypeText
	}

	return declared
}

func Extract(ctx context.Context, f File) (string, error) {
	contentType := ContentType(f)

	switch contentType {
	case ContentTypeText, ContentTypePDF:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	if f.Reader == nil {
		return "", fmt.Errorf("%w: no content", ErrRead)
	}

	data, err := io.ReadAll(f.Reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if contentType == ContentTypePDF {
		return extractPDF(data)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid utf-8", ErrRead)
	}

	return string(data), nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", ErrRead, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}

	var b bytes.Buffer
	if _, err := b.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}

	return b.String(), nil
}
