package installer

import (
	"bufio"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/winappkit/winapp/internal/messages"
)

var httpClient = &http.Client{Timeout: 5 * time.Minute}
var downloadSleep = time.Sleep

const (
	downloadRetryCount   = 1
	downloadRetryBackoff = 250 * time.Millisecond
)

// downloadToFile fetches url and writes it to dest, retrying once on
// transient network failures or 5xx responses. dest is rewound and truncated
// before each attempt so a retried download never leaves mixed content.
func downloadToFile(ctx context.Context, sys System, url string, dest *os.File) error {
	maxBytes := maxDownloadBytes(sys)
	return fetchWithRetry(ctx, url, func(body io.Reader) error {
		if err := dest.Truncate(0); err != nil {
			return fmt.Errorf(messages.InstallerTruncateTempFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf(messages.InstallerSeekTempFmt, err)
		}
		n, err := io.Copy(dest, io.LimitReader(body, maxBytes+1))
		if err != nil {
			return fmt.Errorf(messages.InstallerDownloadFmt, url, err)
		}
		if n > maxBytes {
			return fmt.Errorf(messages.InstallerTooLargeFmt, url, n, maxBytes)
		}
		return nil
	})
}

// fetchChecksum retrieves the expected checksum for asset from checksums.txt.
func fetchChecksum(ctx context.Context, url string, asset string) (string, error) {
	var sum string
	err := fetchWithRetry(ctx, url, func(body io.Reader) error {
		found, scanErr := scanChecksums(body, asset)
		if scanErr != nil {
			return fmt.Errorf(messages.InstallerReadFmt, url, scanErr)
		}
		if found == "" {
			return fmt.Errorf(messages.InstallerChecksumGoneFmt, asset, url)
		}
		sum = found
		return nil
	})
	return sum, err
}

// scanChecksums reads sha256sum-style lines and returns the checksum recorded
// for asset, or "" when the file does not mention it.
func scanChecksums(r io.Reader, asset string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimPrefix(fields[1], "./")
		name = strings.TrimPrefix(name, "*")
		if name == asset {
			return fields[0], nil
		}
	}
	return "", scanner.Err()
}

// fetchWithRetry performs a GET of url and hands the 200 response body to
// consume. Transient network failures, 5xx responses, and transient consume
// errors are retried once.
func fetchWithRetry(ctx context.Context, url string, consume func(io.Reader) error) error {
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		resp, err := getWithContext(ctx, url)
		if err != nil {
			if shouldRetryDownload(attempt, err, 0) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.InstallerTimeoutFmt, url)
			}
			return fmt.Errorf(messages.InstallerDownloadFmt, url, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallerNotFoundFmt, url)
		}
		if resp.StatusCode != http.StatusOK {
			statusText := resp.Status
			retry := shouldRetryDownload(attempt, nil, resp.StatusCode)
			_ = resp.Body.Close()
			if retry {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.InstallerStatusFmt, url, statusText)
		}

		consumeErr := consume(resp.Body)
		_ = resp.Body.Close()
		if consumeErr != nil && shouldRetryDownload(attempt, consumeErr, 0) {
			downloadSleep(downloadRetryBackoff)
			continue
		}
		return consumeErr
	}
	return fmt.Errorf(messages.InstallerDownloadFmt, url, errors.New("retry budget exhausted"))
}

func getWithContext(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "winapp")
	return httpClient.Do(req)
}

// verifyChecksum computes the SHA-256 of path and compares it to expected.
func verifyChecksum(path string, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf(messages.InstallerOpenFileFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf(messages.InstallerHashFileFmt, path, err)
	}
	actual := fmt.Sprintf("%x", hasher.Sum(nil))
	if actual != expected {
		return fmt.Errorf(messages.InstallerChecksumBadFmt, path, expected, actual)
	}
	return nil
}

// isTimeoutError reports whether err is a network timeout.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetryDownload(attempt int, err error, statusCode int) bool {
	if attempt >= downloadRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
