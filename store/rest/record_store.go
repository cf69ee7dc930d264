// Package reststore implements the record store against a PostgREST-style
// HTTP API. Rows are addressed with the same physical table and column names
// the SQL backend uses, so the two are interchangeable behind the
// core.RecordStore contract.
package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-payment-events/core"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB

const restBasePath = "/rest/v1/"

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RecordStore talks to a PostgREST-compatible endpoint. Filters use the
// eq. operator and writes request representation so the backend row comes
// back with its id.
type RecordStore struct {
	BaseURL              string
	APIKey               string
	Client               HTTPDoer
	MaxResponseBodyBytes int64
}

func NewRecordStore(baseURL, apiKey string, client HTTPDoer) (*RecordStore, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, storeError(
			"reststore: base url is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryBadInput,
			"reststore: invalid base url",
			http.StatusBadRequest,
			map[string]any{"base_url": baseURL},
		)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &RecordStore{
		BaseURL:              strings.TrimSuffix(baseURL, "/"),
		APIKey:               strings.TrimSpace(apiKey),
		Client:               client,
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}, nil
}

func (s *RecordStore) Find(ctx context.Context, table, field string, value any) ([]core.Row, error) {
	rows, err := s.request(ctx, http.MethodGet, table, map[string]string{
		field: "eq." + fmt.Sprint(value),
	}, nil, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, fields map[string]any) (string, error) {
	values := copyFields(fields)
	if rowIdentifier(values) == "" {
		values["id"] = uuid.NewString()
	}

	rows, err := s.request(ctx, http.MethodPost, table, nil, values, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", storeError(
			"reststore: insert returned no representation",
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"table": table},
		)
	}
	return rows[0].ID, nil
}

func (s *RecordStore) Update(ctx context.Context, table, rowID string, fields map[string]any) error {
	rowID = strings.TrimSpace(rowID)
	if rowID == "" {
		return storeError(
			"reststore: row id is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"table": table},
		)
	}
	if len(fields) == 0 {
		return nil
	}

	values := copyFields(fields)
	delete(values, "id")
	rows, err := s.request(ctx, http.MethodPatch, table, map[string]string{
		"id": "eq." + rowID,
	}, values, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return storeError(
			"reststore: update matched no rows",
			goerrors.CategoryNotFound,
			http.StatusNotFound,
			map[string]any{"table": table, "row_id": rowID},
		)
	}
	return nil
}

func (s *RecordStore) Upsert(ctx context.Context, table, rowID string, fields map[string]any) (string, error) {
	rowID = strings.TrimSpace(rowID)
	if rowID == "" {
		return s.Insert(ctx, table, fields)
	}

	values := copyFields(fields)
	delete(values, "id")
	rows, err := s.request(ctx, http.MethodPatch, table, map[string]string{
		"id": "eq." + rowID,
	}, values, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return s.Insert(ctx, table, fields)
	}
	return rowID, nil
}

func (s *RecordStore) request(
	ctx context.Context,
	method string,
	table string,
	query map[string]string,
	body map[string]any,
	headers map[string]string,
) ([]core.Row, error) {
	if s == nil || s.Client == nil {
		return nil, storeError(
			"reststore: record store requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, storeError(
			"reststore: table is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint, err := url.Parse(s.BaseURL + restBasePath + url.PathEscape(table))
	if err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryBadInput,
			"reststore: build request url",
			http.StatusBadRequest,
			map[string]any{"table": table},
		)
	}
	values := endpoint.Query()
	for key, value := range query {
		if strings.TrimSpace(key) == "" {
			continue
		}
		values.Set(strings.TrimSpace(key), value)
	}
	endpoint.RawQuery = values.Encode()

	var payload io.Reader
	if body != nil {
		encoded, encodeErr := json.Marshal(body)
		if encodeErr != nil {
			return nil, storeWrapError(
				encodeErr,
				goerrors.CategoryBadInput,
				"reststore: encode request body",
				http.StatusBadRequest,
				map[string]any{"table": table},
			)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryBadInput,
			"reststore: create http request",
			http.StatusBadRequest,
			map[string]any{"table": table, "method": method},
		)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.APIKey != "" {
		req.Header.Set("apikey", s.APIKey)
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryExternal,
			"reststore: execute http request",
			http.StatusBadGateway,
			map[string]any{"table": table, "method": method},
		)
	}
	defer res.Body.Close()

	limit := s.MaxResponseBodyBytes
	if limit <= 0 {
		limit = defaultResponseBodyLimit
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryExternal,
			"reststore: read response body",
			http.StatusBadGateway,
			map[string]any{"table": table, "status_code": res.StatusCode},
		)
	}
	if int64(len(raw)) > limit {
		return nil, storeError(
			fmt.Sprintf("reststore: response body exceeds limit of %d bytes", limit),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"table": table, "status_code": res.StatusCode},
		)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, storeError(
			fmt.Sprintf("reststore: backend returned status %d", res.StatusCode),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"table":       table,
				"method":      method,
				"status_code": res.StatusCode,
				"body":        truncateBody(raw),
			},
		)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, storeWrapError(
			err,
			goerrors.CategoryExternal,
			"reststore: decode response body",
			http.StatusBadGateway,
			map[string]any{"table": table, "status_code": res.StatusCode},
		)
	}

	rows := make([]core.Row, 0, len(decoded))
	for _, fields := range decoded {
		rows = append(rows, core.Row{
			ID:     rowIdentifier(fields),
			Fields: fields,
		})
	}
	return rows, nil
}

func rowIdentifier(fields map[string]any) string {
	value, ok := fields["id"]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func copyFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func truncateBody(raw []byte) string {
	const maxMetadataBody = 512
	if len(raw) > maxMetadataBody {
		raw = raw[:maxMetadataBody]
	}
	return string(raw)
}

var _ core.RecordStore = (*RecordStore)(nil)
