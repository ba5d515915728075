package objstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// Client represents an S3-compatible object storage client used for profile
// images.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewClient creates a new object storage client against any S3-compatible
// endpoint.
func NewClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadImage uploads a base64-encoded image under key and returns its public
// URL. Accepts both raw base64 and data URIs (data:image/png;base64,...).
func (c *Client) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadImage"

	imageBytes, err := DecodeImage(imageData)
	if err != nil {
		metrics.RecordStoreOperation(operation, "error", metrics.MeasureDuration(start))
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.RecordStoreOperation(operation, "error", duration)
		logger.LogStoreCall("objstore", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.RecordStoreOperation(operation, "success", duration)
	logger.LogStoreCall("objstore", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
	)

	// Format: {endpoint}/{bucket}/{key}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}

// DecodeImage decodes base64 image data, stripping a data URI prefix when
// present.
func DecodeImage(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		imageData = parts[1]
	}
	return base64.StdEncoding.DecodeString(imageData)
}

// ValidateImageType validates the image content type
func (c *Client) ValidateImageType(contentType string) error {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, jpg, png", contentType)
	}

	return nil
}

// ValidateImageSize validates the decoded image size (max 1MB)
func (c *Client) ValidateImageSize(imageData string) error {
	const maxSize = 1 * 1024 * 1024

	imageBytes, err := DecodeImage(imageData)
	if err != nil {
		return fmt.Errorf("failed to decode image for size validation: %w", err)
	}

	if len(imageBytes) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(imageBytes), maxSize)
	}

	return nil
}

// ValidateImageDimensions checks that the decoded image is square and between
// 500 and 1000 pixels on a side. Only the header is parsed.
func ValidateImageDimensions(imageBytes []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return fmt.Errorf("failed to read image dimensions: %w", err)
	}

	if cfg.Width != cfg.Height {
		return fmt.Errorf("image must be square, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width < 500 || cfg.Width > 1000 {
		return fmt.Errorf("image side must be between 500 and 1000 pixels, got %d", cfg.Width)
	}

	return nil
}

// GenerateFileName builds a deterministic-prefix, time-suffixed object key
// for a user's profile picture.
func GenerateFileName(userID int, fileName string) string {
	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		ext = strings.ToLower(fileName[idx:])
	}
	return fmt.Sprintf("profiles/%d/%d%s", userID, time.Now().UnixNano(), ext)
}
