package catalog

import (
	"alcyxob/training-manager/internal/repository"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Source fetches the raw catalog payload.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// RemoteFetchError reports that the catalog could not be retrieved.
// StatusCode is zero when no response arrived.
type RemoteFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch catalog %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch catalog %s: %v", e.URL, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// RemoteFormatError reports a payload that is not a list of records.
type RemoteFormatError struct {
	Reason string
	Err    error
}

func (e *RemoteFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog payload: %s: %v", e.Reason, e.Err)
	}
	return "catalog payload: " + e.Reason
}

func (e *RemoteFormatError) Unwrap() error { return e.Err }

// HTTPSource GETs the catalog from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client // nil means http.DefaultClient
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &RemoteFetchError{URL: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &RemoteFetchError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteFetchError{URL: s.URL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteFetchError{URL: s.URL, Err: err}
	}
	return body, nil
}

// ObjectGetter reads a single object by its full key.
type ObjectGetter interface {
	GetObject(ctx context.Context, objectKey string) ([]byte, error)
}

// S3Source reads the catalog from an object in a bucket.
type S3Source struct {
	Objects ObjectGetter
	Key     string
}

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	body, err := s.Objects.GetObject(ctx, s.Key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, &RemoteFetchError{URL: "s3://" + s.Key, StatusCode: http.StatusNotFound, Err: err}
	}
	if err != nil {
		return nil, &RemoteFetchError{URL: "s3://" + s.Key, Err: err}
	}
	return body, nil
}
