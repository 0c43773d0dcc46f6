package helper

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/*
BlobService adalah facade upload/hapus untuk controller & service.
Yang disimpan di DB hanya public URL hasil upload.
*/
type BlobService interface {
	UploadAny(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
	// Owns: true kalau URL berasal dari storage ini (bukan link eksternal).
	Owns(publicURL string) bool
}

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) UploadAny(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File not found")
	}
	key, _, err := b.svc.UploadFromFormFileToDir(ctx, dir, fh)
	if err != nil {
		log.Printf("[OSS] upload %q failed: %v", fh.Filename, err)
		return "", fiber.NewError(fiber.StatusBadGateway, "Failed to upload file")
	}
	return b.svc.PublicURL(key), nil
}

func (b *OSSBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File not found")
	}
	key, err := b.svc.UploadImageAsWebPToDir(ctx, dir, fh)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported image format") {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (use jpg/png/webp)")
		}
		log.Printf("[OSS] image upload %q failed: %v", fh.Filename, err)
		return "", fiber.NewError(fiber.StatusBadGateway, "Failed to upload image")
	}
	return b.svc.PublicURL(key), nil
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := ExtractKeyFromPublicURL(publicURL, b.svc.PublicBase)
	if err != nil {
		return err
	}
	return b.svc.DeleteObject(ctx, key)
}

func (b *OSSBlobService) Owns(publicURL string) bool {
	base := strings.TrimSuffix(b.svc.PublicURL("x"), "x")
	return base != "" && strings.HasPrefix(publicURL, base)
}

// --------------------------------------------------
// Storage belum dikonfigurasi
// --------------------------------------------------

var ErrStorageDisabled = errors.New("object storage is not configured")

type DisabledBlobService struct{}

func (DisabledBlobService) UploadAny(context.Context, string, *multipart.FileHeader) (string, error) {
	return "", fiber.NewError(fiber.StatusBadGateway, ErrStorageDisabled.Error())
}

func (DisabledBlobService) UploadImage(context.Context, string, *multipart.FileHeader) (string, error) {
	return "", fiber.NewError(fiber.StatusBadGateway, ErrStorageDisabled.Error())
}

func (DisabledBlobService) DeleteByPublicURL(context.Context, string) error {
	return ErrStorageDisabled
}

func (DisabledBlobService) Owns(string) bool { return false }

// NewBlobServiceFromEnv: OSS kalau ENV lengkap, selain itu DisabledBlobService.
func NewBlobServiceFromEnv(prefix string) BlobService {
	b, err := NewOSSBlobServiceFromEnv(prefix)
	if err != nil {
		log.Printf("[WARN] object storage disabled: %v", err)
		return DisabledBlobService{}
	}
	return b
}

/* =======================================================================
   Helper kecil untuk controller
======================================================================= */

func IsMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// GetFile mengambil file multipart dari nama field pertama yang ada; nil kalau tidak ada.
func GetFile(c *fiber.Ctx, names ...string) *multipart.FileHeader {
	if !IsMultipart(c) {
		return nil
	}
	for _, n := range names {
		if fh, err := c.FormFile(n); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}
