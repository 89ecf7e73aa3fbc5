// Package fetch resolves a playback source argument (local path or s3://
// URL) down to a local, seekable file path that the demultiplexer can open.
package fetch

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// IsRemote reports whether source names an s3:// object rather than a local path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "s3://")
}

// Resolve returns a local filesystem path for source. Local paths are
// returned unchanged. s3:// URLs are downloaded into a temp file once. On
// success cleanup is never nil: for an s3:// source it removes the temp
// file, for a local path it does nothing. Call it on teardown.
func Resolve(source string) (path string, cleanup func(), err error) {
	if !IsRemote(source) {
		return source, func() {}, nil
	}

	bucket, key, err := parseS3URL(source)
	if err != nil {
		return "", nil, err
	}

	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		return "", nil, fmt.Errorf("fetch: aws session: %w", err)
	}
	client := s3.New(sess)

	result, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("fetch: get object s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	tmp, err := os.CreateTemp("", "avframe-src-*"+filepath.Ext(key))
	if err != nil {
		return "", nil, fmt.Errorf("fetch: create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, result.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("fetch: download s3://%s/%s: %w", bucket, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("fetch: close temp file: %w", err)
	}

	log.Printf("fetch: downloaded s3://%s/%s to %s", bucket, key, tmp.Name())

	path = tmp.Name()
	cleanup = func() {
		if err := os.Remove(path); err != nil {
			log.Printf("fetch: failed to remove temp file %s: %v", path, err)
		}
	}
	return path, cleanup, nil
}

func parseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("fetch: invalid s3 url %q: %w", source, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("fetch: not an s3 url: %q", source)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("fetch: s3 url %q missing bucket or key", source)
	}
	return bucket, key, nil
}
