package helper

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MemoryBlobService menyimpan "upload" di memori. Dipakai di test.
type MemoryBlobService struct {
	mu       sync.Mutex
	BaseURL  string
	Objects  map[string]string // url -> filename
	Deleted  []string
	FailNext error
	seq      int
}

func NewMemoryBlobService() *MemoryBlobService {
	return &MemoryBlobService{BaseURL: "https://blob.test", Objects: map[string]string{}}
}

func (m *MemoryBlobService) upload(dir string, fh *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File not found")
	}
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return "", err
	}
	m.seq++
	url := fmt.Sprintf("%s/%s", m.BaseURL, buildObjectKey("", dir, fmt.Sprintf("%d-%s", m.seq, fh.Filename), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	m.Objects[url] = fh.Filename
	return url, nil
}

func (m *MemoryBlobService) UploadAny(_ context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	return m.upload(dir, fh)
}

func (m *MemoryBlobService) UploadImage(_ context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	return m.upload(dir, fh)
}

func (m *MemoryBlobService) DeleteByPublicURL(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}
	delete(m.Objects, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

func (m *MemoryBlobService) Owns(url string) bool {
	return strings.HasPrefix(url, m.BaseURL+"/")
}

func (m *MemoryBlobService) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// NewFileHeader membuat *multipart.FileHeader nyata (lewat multipart.Reader) untuk test.
func NewFileHeader(field, filename string, content []byte) (*multipart.FileHeader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(content)) + 1024)
	if err != nil {
		return nil, err
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, fmt.Errorf("no file for field %q", field)
	}
	return files[0], nil
}
