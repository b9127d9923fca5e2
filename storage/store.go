package storage

import (
	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/rs/zerolog/log"
)

// New picks Cloudinary when CLOUDINARY_URL is set and the local filesystem
// otherwise. The filesystem store is always returned so /uploads can be served.
func New(cfg *config.AppConfig) (BlobStore, *FSStore, error) {
	fs, err := NewFSStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CloudinaryURL == "" {
		log.Info().Str("dir", cfg.UploadDir).Msg("using filesystem upload store")
		return fs, fs, nil
	}

	cld, err := NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msg("using cloudinary upload store")
	return cld, fs, nil
}
