// SPDX-License-Identifier: ice License 1.0

package filestorage

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/time"
)

// Public API.

var (
	ErrUnavailable    = errors.New("file storage unavailable")
	ErrWriteFailed    = errors.New("file storage write failed")
	ErrObjectNotFound = errors.New("object not found")
)

type (
	ObjectInfo struct {
		CreatedAt   *time.Time `json:"created_at,omitempty"`
		UpdatedAt   *time.Time `json:"updated_at,omitempty"`
		Name        string     `json:"name"`
		StoragePath string     `json:"storage_path"`
		PublicURL   string     `json:"public_url"`
		SizeBytes   uint64     `json:"size"`
	}
	Client interface {
		Upload(ctx context.Context, storagePath, contentType string, data []byte) error
		Remove(ctx context.Context, storagePath string) error
		List(ctx context.Context, folder string) ([]*ObjectInfo, error)
		PublicURL(storagePath string) string
		CheckHealth(ctx context.Context) error
	}
)

// Private API.

const (
	requestDeadline = 25 * stdlibtime.Second
)

type (
	fileStorage struct {
		cfg *config
	}
	config struct {
		RecruitingFileStorage struct {
			Credentials struct {
				AccessKey string `yaml:"accessKey"`
			} `yaml:"credentials" mapstructure:"credentials"`
			URLUpload   string `yaml:"urlUpload"`
			URLDownload string `yaml:"urlDownload"`
		} `yaml:"recruiting/filestorage" mapstructure:"recruiting/filestorage"` //nolint:tagliatelle // Nope.
	}
	listedObject struct {
		LastChanged string `json:"lastChanged"`
		DateCreated string `json:"dateCreated"`
		ObjectName  string `json:"objectName"`
		Length      uint64 `json:"length"`
		IsDirectory bool   `json:"isDirectory"`
	}
)
