package meteosat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jusethCS/meteosat/log"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Downloader fetches product files over HTTP. Transient failures are retried
// with exponential backoff; a circuit breaker guards each instance so a dead
// server is not hammered across a batch of slices.
type Downloader struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	retries  uint64
	authHost string
	authUser string
	authPass string
	logTag   string
}

func NewDownloader() *Downloader {
	jar, _ := cookiejar.New(nil)
	d := &Downloader{
		client: &http.Client{
			Timeout: 15 * time.Minute,
			Jar:     jar,
		},
		retries: 4,
		logTag:  "Downloader:",
	}
	d.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		d.applyAuth(req)
		return nil
	}
	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "meteosat-download",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return d
}

// SetAuth attaches basic credentials for one host. NASA OPeNDAP servers
// redirect to the Earthdata login host, which is where the header belongs.
func (d *Downloader) SetAuth(host, user, pass string) {
	d.authHost = host
	d.authUser = user
	d.authPass = pass
}

func (d *Downloader) applyAuth(req *http.Request) {
	if d.authHost != "" && req.URL.Host == d.authHost {
		req.SetBasicAuth(d.authUser, d.authPass)
	}
}

// FetchFile downloads rawURL into dst, retrying transient failures.
func (d *Downloader) FetchFile(ctx context.Context, rawURL, dst string) (err error) {
	op := func() error {
		return d.doGet(ctx, rawURL, func(body io.Reader) (e error) {
			out, e := os.Create(dst)
			if e != nil {
				return backoff.Permanent(e)
			}
			_, e = io.Copy(out, body)
			if cErr := out.Close(); e == nil {
				e = cErr
			}
			if e != nil {
				os.Remove(dst)
			}
			return
		})
	}
	if err = d.retry(ctx, rawURL, op); err != nil {
		return
	}
	log.Info(d.logTag+"file downloaded", zap.String("url", rawURL), zap.String("dst", dst))
	return
}

// FetchBytes downloads rawURL into memory, retrying transient failures.
func (d *Downloader) FetchBytes(ctx context.Context, rawURL string) (body []byte, err error) {
	op := func() error {
		return d.doGet(ctx, rawURL, func(r io.Reader) (e error) {
			body, e = io.ReadAll(r)
			return
		})
	}
	err = d.retry(ctx, rawURL, op)
	return
}

// FetchJSON downloads rawURL and decodes the reply into out.
func (d *Downloader) FetchJSON(ctx context.Context, rawURL string, out interface{}) (err error) {
	body, err := d.FetchBytes(ctx, rawURL)
	if err != nil {
		return
	}
	if err = json.Unmarshal(body, out); err != nil {
		log.Error(d.logTag+"bad JSON reply", zap.String("url", rawURL), zap.Error(err))
		err = ErrBadQueryReply
	}
	return
}

// PostForm sends one form request and reports the reply status. Used for
// login verification, so there is no point in retrying a rejection.
func (d *Downloader) PostForm(ctx context.Context, rawURL string, form url.Values) (status int, err error) {
	_, err = d.breaker.Execute(func() (interface{}, error) {
		req, e := http.NewRequestWithContext(ctx, http.MethodPost, rawURL,
			strings.NewReader(form.Encode()))
		if e != nil {
			return nil, e
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		d.applyAuth(req)
		resp, e := d.client.Do(req)
		if e != nil {
			return nil, e
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		status = resp.StatusCode
		return nil, nil
	})
	return
}

func (d *Downloader) retry(ctx context.Context, rawURL string, op func() error) (err error) {
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), d.retries), ctx)
	err = backoff.RetryNotify(op, bo, func(e error, next time.Duration) {
		log.Warn(d.logTag+"retrying download", zap.String("url", rawURL),
			zap.Duration("wait", next), zap.Error(e))
	})
	if err != nil {
		log.Error(d.logTag+"download failed", zap.String("url", rawURL), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return
}

func (d *Downloader) doGet(ctx context.Context, rawURL string, sink func(io.Reader) error) (err error) {
	_, err = d.breaker.Execute(func() (interface{}, error) {
		req, e := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if e != nil {
			return nil, backoff.Permanent(e)
		}
		d.applyAuth(req)
		resp, e := d.client.Do(req)
		if e != nil {
			return nil, e
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			e = fmt.Errorf("unexpected status %s", resp.Status)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// missing slice or rejected credentials, retrying cannot help
				e = backoff.Permanent(e)
			}
			return nil, e
		}
		return nil, sink(resp.Body)
	})
	return
}
