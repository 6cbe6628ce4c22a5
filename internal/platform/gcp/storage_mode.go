package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
	ObjectStorageConfigErrorInvalidPublicURL    ObjectStorageConfigErrorCode = "invalid_public_base_url"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Value string
	Cause error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	case ObjectStorageConfigErrorMissingBucket:
		return "missing SEO_IMAGES_GCS_BUCKET"
	case ObjectStorageConfigErrorInvalidPublicURL:
		return fmt.Sprintf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// StorageConfig describes where generated images and social cards live.
type StorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	PublicBaseURL string

	ImagesBucket string
	ImagesCDN    string
	// CardsBucket defaults to ImagesBucket.
	CardsBucket string
	CardsCDN    string
}

// Normalize fills defaults and validates the config.
func (c StorageConfig) Normalize() (StorageConfig, error) {
	c.EmulatorHost = strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.ImagesBucket = strings.TrimSpace(c.ImagesBucket)
	c.CardsBucket = strings.TrimSpace(c.CardsBucket)

	switch ObjectStorageMode(strings.ToLower(strings.TrimSpace(string(c.Mode)))) {
	case "":
		if c.EmulatorHost != "" {
			c.Mode = ObjectStorageModeGCSEmulator
		} else {
			c.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS:
		c.Mode = ObjectStorageModeGCS
	case ObjectStorageModeGCSEmulator:
		c.Mode = ObjectStorageModeGCSEmulator
	default:
		return c, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: string(c.Mode)}
	}

	if c.Mode == ObjectStorageModeGCSEmulator {
		if c.EmulatorHost == "" {
			return c, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost}
		}
		if !isAbsoluteURL(c.EmulatorHost) {
			return c, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidEmulatorHost, Value: c.EmulatorHost}
		}
		if c.PublicBaseURL == "" {
			c.PublicBaseURL = c.EmulatorHost
		}
	}
	if c.PublicBaseURL != "" && !isAbsoluteURL(c.PublicBaseURL) {
		return c, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidPublicURL, Value: c.PublicBaseURL}
	}
	if c.ImagesBucket == "" {
		return c, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket}
	}
	if c.CardsBucket == "" {
		c.CardsBucket = c.ImagesBucket
		if c.CardsCDN == "" {
			c.CardsCDN = c.ImagesCDN
		}
	}
	return c, nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}
