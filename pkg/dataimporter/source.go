package dataimporter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const downloadTries = 5

var newBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// OpenSource returns a local path for input, downloading it first when it is
// a URL. cleanup removes anything that was downloaded.
func OpenSource(ctx context.Context, input string) (string, func(), error) {
	if !isValidUrl(input) {
		return input, func() {}, nil
	}

	tmpFile, err := os.CreateTemp(os.TempDir(), "agencyfeed-gtfs-*.zip")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}

	retryBackoff := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), downloadTries-1), ctx)

	err = backoff.RetryNotify(func() error {
		return downloadFile(ctx, input, tmpFile)
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("source", input).Str("wait", wait.String()).Msg("Download failed, retrying")
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("download %s: %w", input, err)
	}

	log.Info().Str("source", input).Str("file", tmpFile.Name()).Msg("Downloaded feed")

	return tmpFile.Name(), cleanup, nil
}

func downloadFile(ctx context.Context, source string, destination *os.File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", "agencyfeed")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := destination.Truncate(0); err != nil {
		return err
	}
	if _, err := destination.Seek(0, io.SeekStart); err != nil {
		return err
	}

	_, err = io.Copy(destination, resp.Body)

	return err
}
