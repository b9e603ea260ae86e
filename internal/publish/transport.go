package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 1 << 20

// Response is the part of an HTTP response the classifier needs.
type Response struct {
	StatusCode int
	Body       string
}

// Transport sends an UploadRequest. A non-nil error means no response was
// received; HTTP error statuses are returned as a Response.
type Transport interface {
	Send(ctx context.Context, req *UploadRequest) (*Response, error)
}

// HTTPTransport posts multipart forms with net/http.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

// NewHTTPTransport returns an HTTPTransport. A nil client uses http.DefaultClient.
func NewHTTPTransport(client *http.Client, userAgent string) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, userAgent: userAgent}
}

// Send posts req to req.URL. The artifact is streamed from disk; the body
// length is computed up front so the request is not chunked.
func (t *HTTPTransport) Send(ctx context.Context, req *UploadRequest) (*Response, error) {
	// #nosec G304 -- the path is an artifact named by the user.
	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, artifactReadError(req.FilePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, artifactReadError(req.FilePath, err)
	}

	head, tail, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}
	body := io.MultiReader(bytes.NewReader(head), file, bytes.NewReader(tail))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, body)
	if err != nil {
		return nil, err
	}
	httpReq.ContentLength = int64(len(head)) + info.Size() + int64(len(tail))
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.SetBasicAuth(req.Username, req.Password)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Response{StatusCode: resp.StatusCode}, nil
	}
	return &Response{StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}, nil
}

// encodeForm renders every text field plus the file part header (head) and
// the closing boundary (tail). The file bytes go between the two.
func encodeForm(req *UploadRequest) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for _, field := range req.Fields {
		if err := form.WriteField(field.Name, field.Value); err != nil {
			return nil, nil, "", err
		}
	}
	if _, err := form.CreateFormFile(contentField, req.FileName); err != nil {
		return nil, nil, "", err
	}
	headLen := buf.Len()
	if err := form.Close(); err != nil {
		return nil, nil, "", err
	}
	data := buf.Bytes()
	return data[:headLen], data[headLen:], form.FormDataContentType(), nil
}

func readErrorBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return fmt.Sprintf("The registry should return some text, even in case of an error, but didn't (%v)", err)
	}
	return string(data)
}

func artifactReadError(path string, err error) error {
	return catalog.WrapWithContext(ErrReadArtifact, err,
		fmt.Sprintf("failed to read %s: %v", path, err),
		map[string]any{"artifact": path})
}
