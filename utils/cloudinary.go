package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"academy/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// UploadResult is the subset of Cloudinary's response the app uses.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// rawFileTypes are delivered by Cloudinary as raw assets instead of images
var rawFileTypes = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".csv": true, ".zip": true, ".html": true,
}

// UploadToCloudinary uploads a file buffer (receipts, certificates,
// submissions) and returns the hosted URL and public id.
func UploadToCloudinary(fileBuffer []byte, filename string) (string, string, error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return "", "", fmt.Errorf("cloudinary is not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	safeName := strings.ToLower(filenameSanitizer.ReplaceAllString(base, "_"))

	resourceType := "image"
	publicID := safeName + "_" + uuid.NewString()
	if rawFileTypes[ext] {
		resourceType = "raw"
		publicID += ext
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := signCloudinary(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, cfg.CloudinaryAPISecret)

	var result UploadResult
	resp, err := resty.New().R().
		SetFileReader("file", filename, strings.NewReader(string(fileBuffer))).
		SetFormData(map[string]string{
			"api_key":   cfg.CloudinaryAPIKey,
			"timestamp": timestamp,
			"public_id": publicID,
			"signature": signature,
		}).
		SetResult(&result).
		Post(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", cfg.CloudinaryCloudName, resourceType))
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.IsError() || result.SecureURL == "" {
		return "", "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	return result.SecureURL, result.PublicID, nil
}

// signCloudinary builds the sha1 request signature over the sorted params.
func signCloudinary(params map[string]string, secret string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	// Cloudinary expects alphabetical param order
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j] < pairs[i] {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
