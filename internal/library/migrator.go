package library

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"easel/internal/asset"
)

// maxInlineBytes caps how much content a migration will inline as a data
// URI. Anything larger stays on its original URI.
const maxInlineBytes = 8 << 20

// HTTPMigrator re-homes assets by downloading their content and inlining
// it as a data URI, making the record independent of the original host.
type HTTPMigrator struct {
	client *http.Client
}

// NewHTTPMigrator builds a migrator over the given HTTP client.
func NewHTTPMigrator(client *http.Client) *HTTPMigrator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPMigrator{client: client}
}

// Migrate implements Migrator.
func (m *HTTPMigrator) Migrate(ctx context.Context, a *asset.Asset) (*asset.Asset, error) {
	if !strings.HasPrefix(a.Src, "http://") && !strings.HasPrefix(a.Src, "https://") {
		return nil, fmt.Errorf("migrate %s: content at %q is not recoverable", a.ID, a.Src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Src, nil)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", a.ID, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", a.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("migrate %s: unexpected status %d", a.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineBytes+1))
	if err != nil {
		return nil, fmt.Errorf("migrate %s: read content: %w", a.ID, err)
	}
	if len(data) > maxInlineBytes {
		return nil, fmt.Errorf("migrate %s: content exceeds inline limit", a.ID)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	replacement := a.Clone()
	replacement.Src = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	return replacement, nil
}
