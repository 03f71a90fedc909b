package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const DefaultSource = "validation_results.json"

// maxDocumentBytes bounds the size of a fetched report.
const maxDocumentBytes = 64 << 20

// HTTPClient matches the Do method of *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the report URL answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch validation results: %d", e.Code)
}

// Document is a fetched and decoded report together with its provenance.
// Raw holds the bytes as read, so the document can be served unchanged.
type Document struct {
	Source string
	SHA256 string
	Size   int
	Raw    []byte
	Report ValidationReport
}

type Fetcher struct {
	Client  HTTPClient
	Timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

// Fetch reads the report from an http(s) URL or a local path. A zero Timeout
// waits until the context is done.
func (f *Fetcher) Fetch(ctx context.Context, source string) (Document, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultSource
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	var (
		payload []byte
		err     error
	)
	if IsRemote(source) {
		payload, err = f.get(ctx, source)
	} else {
		payload, err = readLocal(source)
	}
	if err != nil {
		return Document{}, err
	}

	report, err := Decode(payload)
	if err != nil {
		return Document{}, err
	}
	sum := sha256.Sum256(payload)
	return Document{
		Source: source,
		SHA256: hex.EncodeToString(sum[:]),
		Size:   len(payload),
		Raw:    payload,
		Report: report,
	}, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(b) > maxDocumentBytes {
		return nil, fmt.Errorf("read %s: document exceeds %d bytes", url, maxDocumentBytes)
	}
	return b, nil
}

func readLocal(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("validation results not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// Decode parses a report document.
func Decode(payload []byte) (ValidationReport, error) {
	var report ValidationReport
	if len(strings.TrimSpace(string(payload))) == 0 {
		return report, errors.New("parse validation results: empty document")
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return ValidationReport{}, fmt.Errorf("parse validation results: %w", err)
	}
	return report, nil
}

func IsRemote(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
