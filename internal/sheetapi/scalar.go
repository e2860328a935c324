package sheetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/renovadesk/renova/internal/numeric"
)

// callbackTimeout bounds the JSONP-style fallback request. The script
// endpoint either answers a callback request quickly or not at all.
const callbackTimeout = 9 * time.Second

// Well-known field names the scalar endpoints have been observed to use.
var scalarFields = []string{"total", "totalRenovacoes", "valor", "value"}

// fetchScalar reads one aggregate number from the endpoint. It tries a
// direct request first and degrades through a callback-wrapped request when
// the direct call fails or yields nothing numeric. Every failure path ends
// at 0 rather than an error: a dashboard with a stale zero beats a crash.
func (c *Client) fetchScalar(ctx context.Context, query url.Values) float64 {
	body, err := c.getOnce(ctx, query)
	if err == nil {
		if v, ok := scalarFromPayload(body); ok {
			return v
		}
		slog.Debug("Direct scalar response had no numeric value", "query", query.Encode())
	} else {
		slog.Debug("Direct scalar request failed, trying callback channel",
			"query", query.Encode(), "error", err)
	}

	body, err = c.getCallback(ctx, query)
	if err != nil {
		slog.Warn("Scalar metric unavailable, defaulting to 0",
			"query", query.Encode(), "error", err)
		return 0
	}
	if v, ok := scalarFromPayload(body); ok {
		return v
	}

	slog.Warn("Scalar metric response unparseable, defaulting to 0", "query", query.Encode())
	return 0
}

// getCallback re-issues the request with a one-shot callback parameter and
// unwraps the callback(...) envelope from the response.
func (c *Client) getCallback(ctx context.Context, query url.Values) ([]byte, error) {
	name := fmt.Sprintf("cb_%d", rand.Int63())

	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	q.Set("callback", name)

	ctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create callback request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("callback request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("callback request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read callback response: %w", err)
	}

	wrapper := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*\(`)
	text := strings.TrimSpace(string(body))
	if loc := wrapper.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
		if end := strings.LastIndex(text, ")"); end >= 0 {
			text = text[:end]
		}
	}
	return []byte(text), nil
}

// scalarFromPayload extracts one number from a raw payload: first as plain
// text, then as structured JSON with a well-known field name or a sole value.
func scalarFromPayload(body []byte) (float64, bool) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return 0, false
	}

	// A bare JSON object would match its first digit ("success":1 and the
	// like), so text extraction only applies to non-object payloads.
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		if v, ok := numeric.Extract(text); ok {
			return v, true
		}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	return scalarFromValue(payload)
}

func scalarFromValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case string:
		return numeric.Extract(val)
	case map[string]any:
		for _, field := range scalarFields {
			if inner, ok := val[field]; ok {
				return scalarFromValue(inner)
			}
		}
		if len(val) == 1 {
			for _, inner := range val {
				return scalarFromValue(inner)
			}
		}
	case []any:
		if len(val) > 0 {
			return scalarFromValue(val[0])
		}
	}
	return 0, false
}
