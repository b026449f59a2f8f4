package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	supastorage "github.com/supabase-community/storage-go"
)

// supabaseAPI — часть клиента storage-go, которая нужна хранилищу.
type supabaseAPI interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...supastorage.FileOptions) (supastorage.FileUploadResponse, error)
}

// Supabase хранит файлы в публичном бакете Supabase Storage.
type Supabase struct {
	client  supabaseAPI
	bucket  string
	baseURL string
}

// NewSupabase создаёт клиент Supabase Storage.
func NewSupabase(supabaseURL, serviceKey, bucket string) (*Supabase, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase storage: url and service key are required")
	}
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := supastorage.NewClient(baseURL+"/storage/v1", serviceKey, nil)
	return &Supabase{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *Supabase) Put(_ context.Context, filename string, data []byte, contentType string) (Object, error) {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, filename, bytes.NewReader(data), supastorage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload file: %w", err)
	}
	return Object{Key: filename, URL: s.PublicURL(filename)}, nil
}

// PublicURL — адрес объекта в публичном бакете.
func (s *Supabase) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}
