package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryFolder = "interview_portal"

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld}, nil
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func (s *CloudinaryStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID(key),
		Folder:       cloudinaryFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", &UploadError{Message: res.Error.Message}
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: cloudinaryFolder + "/" + publicID(key),
	})
	return err
}

type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return "cloudinary upload failed: " + e.Message
}
