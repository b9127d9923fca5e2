package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const recordingUploadFolder = "interview_portal/recordings"

// GenerateUploadSignature signs a direct browser upload of a candidate
// recording to Cloudinary. It is only available when Cloudinary is configured.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.App.CloudinaryURL
	if cloudinaryURL == "" {
		return fiber.NewError(fiber.StatusNotFound, "Direct uploads are not enabled")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return err
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return err
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: recordingUploadFolder,
	})
	if err != nil {
		return err
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    cld.Config.Cloud.APIKey,
		"cloud_name": cld.Config.Cloud.CloudName,
		"folder":     recordingUploadFolder,
	})
}
