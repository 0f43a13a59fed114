// Package httpupload delivers pending operations to a remote system over
// HTTP.
package httpupload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fieldpos/syncqueue"
)

// Header names set on every upload request.
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	OperationTypeHeader      = "X-Operation-Type"
	OperationTimestampHeader = "X-Operation-Timestamp"
	DeviceIDHeader           = "X-Device-ID"
)

// DefaultContentType is the default content type of the request body.
const DefaultContentType = "application/json"

// maxErrorBody is the maximum number of bytes of a response body included in
// a StatusError.
const maxErrorBody = 512

// Uploader is an implementation of syncqueue.Uploader that POSTs each
// operation's payload to an HTTP endpoint.
//
// The operation's ID is sent in the Idempotency-Key header so that the remote
// system can recognize an operation that is uploaded more than once.
type Uploader struct {
	// Endpoint is the URL that operations are posted to.
	Endpoint string

	// Client is the HTTP client used to send requests. If it is nil,
	// http.DefaultClient is used.
	Client *http.Client

	// ContentType is the content type of the request body. If it is empty,
	// DefaultContentType is used.
	ContentType string

	// Header contains additional headers sent with every request, such as
	// authorization credentials.
	Header http.Header
}

var _ syncqueue.Uploader = (*Uploader)(nil)

// UploadOperation posts op to the endpoint.
//
// Any response other than a 2xx status is returned as a *StatusError.
func (u *Uploader) UploadOperation(ctx context.Context, op syncqueue.PendingOperation) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.Endpoint,
		bytes.NewReader(op.Payload),
	)
	if err != nil {
		return err
	}

	for k, values := range u.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	contentType := u.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(IdempotencyKeyHeader, op.ID)
	req.Header.Set(OperationTimestampHeader, strconv.FormatInt(op.Timestamp.UnixMilli(), 10))

	if op.Type != "" {
		req.Header.Set(OperationTypeHeader, op.Type)
	}

	if op.DeviceID != "" {
		req.Header.Set(DeviceIDHeader, op.DeviceID)
	}

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		// Drain the body so that the connection can be reused.
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	return &StatusError{
		StatusCode: res.StatusCode,
		Body:       string(bytes.TrimSpace(body)),
	}
}

// StatusError is returned when the endpoint responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf(
			"upload rejected with status %d %s",
			e.StatusCode,
			http.StatusText(e.StatusCode),
		)
	}

	return fmt.Sprintf(
		"upload rejected with status %d %s: %s",
		e.StatusCode,
		http.StatusText(e.StatusCode),
		e.Body,
	)
}
