package utils

import (
	"bytes"
	"coursebox/config"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// BlobStorage is an HTTP client for the external blob store that keeps
// certificate documents and templates.
type BlobStorage struct {
	client *resty.Client
}

// NewBlobStorage builds a client against the configured storage service
func NewBlobStorage() *BlobStorage {
	client := resty.New().
		SetBaseURL(config.AppConfig.StorageBaseURL).
		SetTimeout(15 * time.Second)
	if config.AppConfig.StorageAPIKey != "" {
		client.SetHeader("Authorization", "Bearer "+config.AppConfig.StorageAPIKey)
	}
	return &BlobStorage{client: client}
}

// Upload stores a document and returns its public URL
func (s *BlobStorage) Upload(data []byte, filename, contentType, folder string) (string, error) {
	resp, err := s.client.R().
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"folder":       folder,
			"content_type": contentType,
		}).
		Post("/objects")
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %v", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", fmt.Errorf("storage upload failed: %s", resp.String())
	}

	var uploadResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return "", fmt.Errorf("invalid storage response: %v", err)
	}
	if uploadResp.URL == "" {
		return "", fmt.Errorf("storage response missing url")
	}

	return uploadResp.URL, nil
}

// Fetch downloads a stored object (certificate templates)
func (s *BlobStorage) Fetch(url string) ([]byte, error) {
	resp, err := s.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("storage fetch failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("storage fetch failed with status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
