// SPDX-License-Identifier: ice License 1.0

package filestorage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	stdlibtime "time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	appcfg "github.com/ae2i/recruiting/config"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/time"
)

//nolint:gochecknoinits // It's the only way to tweak the client.
func init() {
	req.DefaultClient().SetJsonMarshal(json.Marshal)
	req.DefaultClient().SetJsonUnmarshal(json.Unmarshal)
	req.DefaultClient().GetClient().Timeout = requestDeadline
}

// New builds the bucket client and probes the bucket root.
// An unreachable bucket is reported as ErrUnavailable instead of a panic, the caller is expected
// to keep running in a degraded state and surface 503s until the backend comes back.
func New(ctx context.Context, applicationYAMLKey string) (Client, error) {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RecruitingFileStorage.Credentials.AccessKey == "" {
		cfg.RecruitingFileStorage.Credentials.AccessKey = appcfg.EnvFallback(applicationYAMLKey, "FILE_STORAGE_ACCESS_KEY")
	}
	if cfg.RecruitingFileStorage.URLUpload == "" {
		return nil, errors.Wrap(ErrUnavailable, "file storage is not configured")
	}

	client := &fileStorage{cfg: &cfg}
	probe := func() error {
		return client.CheckHealth(ctx)
	}
	if err := backoff.Retry(probe, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)); err != nil { //nolint:mnd,gomnd // .
		return nil, errors.Wrapf(ErrUnavailable, "bucket probe failed: %v", err)
	}

	return client, nil
}

func (f *fileStorage) Upload(ctx context.Context, storagePath, contentType string, data []byte) error {
	resp, err := f.storageReq(ctx).
		SetHeader("Content-Type", contentType).
		SetBodyBytes(data).
		Put(f.uploadURL(storagePath))
	if err == nil && resp.IsSuccessState() {
		return nil
	}
	if err == nil && !resp.IsSuccessState() {
		body, rErr := resp.ToString()
		log.Error(rErr)

		return errors.Wrapf(ErrWriteFailed, "upload of %v failed with status: %v, body: %v", storagePath, resp.GetStatusCode(), body)
	}

	return errors.Wrapf(err, "upload request for %v failed", storagePath)
}

func (f *fileStorage) Remove(ctx context.Context, storagePath string) error {
	resp, err := f.storageReq(ctx).Delete(f.uploadURL(storagePath))
	if err == nil && resp.GetStatusCode() == http.StatusNotFound {
		return errors.Wrapf(ErrObjectNotFound, "no such object: %v", storagePath)
	}
	if err == nil && !resp.IsSuccessState() {
		body, rErr := resp.ToString()
		log.Error(rErr)

		return errors.Wrapf(ErrWriteFailed, "removal of %v failed with status: %v, body: %v", storagePath, resp.GetStatusCode(), body)
	}

	return errors.Wrapf(err, "removal request for %v failed", storagePath)
}

func (f *fileStorage) List(ctx context.Context, folder string) ([]*ObjectInfo, error) {
	folder = strings.Trim(folder, "/")
	var listed []*listedObject
	resp, err := f.storageReq(ctx).
		SetSuccessResult(&listed).
		Get(f.uploadURL(folder) + "/")
	if err != nil {
		return nil, errors.Wrapf(err, "list request for %v failed", folder)
	}
	if !resp.IsSuccessState() {
		return nil, errors.Wrapf(ErrWriteFailed, "list of %v failed with status: %v", folder, resp.GetStatusCode())
	}
	objects := make([]*ObjectInfo, 0, len(listed))
	for _, obj := range listed {
		if obj.IsDirectory || obj.ObjectName == "" {
			continue
		}
		storagePath := obj.ObjectName
		if folder != "" {
			storagePath = fmt.Sprintf("%v/%v", folder, obj.ObjectName)
		}
		objects = append(objects, &ObjectInfo{
			Name:        obj.ObjectName,
			StoragePath: storagePath,
			PublicURL:   f.PublicURL(storagePath),
			SizeBytes:   obj.Length,
			CreatedAt:   parseObjectTime(obj.DateCreated),
			UpdatedAt:   parseObjectTime(obj.LastChanged),
		})
	}

	return objects, nil
}

func (f *fileStorage) PublicURL(storagePath string) string {
	if storagePath == "" || strings.HasPrefix(storagePath, f.cfg.RecruitingFileStorage.URLDownload) {
		return storagePath
	}

	return fmt.Sprintf("%v/%v", f.cfg.RecruitingFileStorage.URLDownload, storagePath)
}

func (f *fileStorage) CheckHealth(ctx context.Context) error {
	resp, err := f.storageReq(ctx).Get(f.cfg.RecruitingFileStorage.URLUpload + "/")
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "bucket root is unreachable: %v", err)
	}
	if !resp.IsSuccessState() {
		return errors.Wrapf(ErrUnavailable, "bucket root replied with status: %v", resp.GetStatusCode())
	}

	return nil
}

func (f *fileStorage) uploadURL(storagePath string) string {
	if storagePath == "" || strings.HasPrefix(storagePath, f.cfg.RecruitingFileStorage.URLUpload) {
		return storagePath
	}

	return fmt.Sprintf("%v/%v", f.cfg.RecruitingFileStorage.URLUpload, storagePath)
}

//nolint:mnd,gomnd // Static config.
func (f *fileStorage) storageReq(ctx context.Context) *req.Request {
	return req.
		SetContext(ctx).
		SetRetryBackoffInterval(10*stdlibtime.Millisecond, 1*stdlibtime.Second).
		SetRetryHook(func(resp *req.Response, err error) {
			switch {
			case err != nil:
				log.Error(errors.Wrapf(err, "file storage request failed, retrying... "))
			case resp.GetStatusCode() == http.StatusTooManyRequests:
				log.Error(errors.New("file storage rate limit reached, retrying... "))
			case resp.GetStatusCode() >= http.StatusInternalServerError:
				log.Error(errors.New("file storage internal error, retrying... "))
			}
		}).
		SetRetryCount(5).
		SetRetryCondition(func(resp *req.Response, err error) bool {
			return err != nil || resp.GetStatusCode() == http.StatusTooManyRequests || resp.GetStatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("AccessKey", f.cfg.RecruitingFileStorage.Credentials.AccessKey)
}

func parseObjectTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	parsed, err := stdlibtime.Parse(stdlibtime.RFC3339, val)
	if err != nil {
		return nil
	}

	return time.New(parsed)
}
