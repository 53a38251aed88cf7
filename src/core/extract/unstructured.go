package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// UnstructuredExtractor extracts text through an unstructured-io API server.
// It is the remote alternative to DocconvExtractor for deployments that
// already run the parsing service.
type UnstructuredExtractor struct {
	baseURL string
	client  *http.Client
}

type unstructuredElement struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewUnstructuredExtractor(baseURL string, timeout time.Duration) *UnstructuredExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &UnstructuredExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *UnstructuredExtractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", "document"+extensionFor(contentType))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if err := writer.WriteField("output_format", "application/json"); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/general/v0/general", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: parsing service returned %s: %s", ErrExtraction, resp.Status, detail)
	}

	var elements []unstructuredElement
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		if el.Text != "" {
			texts = append(texts, el.Text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

// extensionFor keeps the service's file-type sniffing working when the
// caller only has a MIME type.
func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/msword":
		return ".doc"
	case "text/html":
		return ".html"
	default:
		return ".txt"
	}
}
