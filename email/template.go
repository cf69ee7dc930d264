package email

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-payment-events/core"
)

const defaultTemplateClientTimeout = 30 * time.Second
const defaultTemplateBodyLimit int64 = 2 << 20 // 2 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTemplateFetcher retrieves template bodies over HTTP.
type HTTPTemplateFetcher struct {
	Client       HTTPDoer
	MaxBodyBytes int64
}

// NewHTTPTemplateFetcher builds a fetcher; a nil client gets a default with
// a request timeout.
func NewHTTPTemplateFetcher(client HTTPDoer) *HTTPTemplateFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTemplateClientTimeout}
	}
	return &HTTPTemplateFetcher{
		Client:       client,
		MaxBodyBytes: defaultTemplateBodyLimit,
	}
}

func (f *HTTPTemplateFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f == nil || f.Client == nil {
		return "", emailError(
			"email: template fetcher requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return "", emailError(
			"email: template url is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", emailWrapError(
			err,
			goerrors.CategoryBadInput,
			"email: create template request",
			http.StatusBadRequest,
			map[string]any{"template_url": url},
		)
	}

	res, err := f.Client.Do(req)
	if err != nil {
		return "", emailWrapError(
			err,
			goerrors.CategoryExternal,
			"email: fetch template",
			http.StatusBadGateway,
			map[string]any{"template_url": url},
		)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", emailError(
			fmt.Sprintf("email: template fetch returned status %d", res.StatusCode),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"template_url": url, "status_code": res.StatusCode},
		)
	}

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = defaultTemplateBodyLimit
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return "", emailWrapError(
			err,
			goerrors.CategoryExternal,
			"email: read template body",
			http.StatusBadGateway,
			map[string]any{"template_url": url},
		)
	}
	if int64(len(body)) > limit {
		return "", emailError(
			fmt.Sprintf("email: template body exceeds limit of %d bytes", limit),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"template_url": url, "body_limit_b": limit},
		)
	}
	return string(body), nil
}

var _ core.TemplateFetcher = (*HTTPTemplateFetcher)(nil)
