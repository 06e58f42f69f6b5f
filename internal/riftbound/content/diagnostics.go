package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

const sampleLimit = 500

// Diagnostics is the result of TestAPIConnection.
type Diagnostics struct {
	URL        string            `json:"url"`
	MaskedKey  string            `json:"maskedKey"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	OK         bool              `json:"ok"`

	Game        string `json:"game,omitempty"`
	Version     string `json:"version,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Sets        int    `json:"sets"`
	Cards       int    `json:"cards"`
	FirstSet    string `json:"firstSet,omitempty"`
	SampleCard  string `json:"sampleCard,omitempty"`

	ErrorBody string `json:"errorBody,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Err       string `json:"err,omitempty"`
}

var diagnosticHeaders = []string{
	"Content-Type",
	"X-App-Rate-Limit",
	"X-App-Rate-Limit-Count",
	"X-Method-Rate-Limit",
	"Retry-After",
}

// TestAPIConnection exercises the content endpoint and reports what came
// back. It never returns an error; failures are recorded in the result
// and written to w (which may be nil).
func (c *Client) TestAPIConnection(ctx context.Context, w io.Writer) Diagnostics {
	if w == nil {
		w = io.Discard
	}

	d := Diagnostics{
		URL:       c.contentURL(DefaultLocale),
		MaskedKey: maskKey(c.apiKey),
		Headers:   make(map[string]string),
	}

	fmt.Fprintln(w, "=== Testing Riot Riftbound Content API ===")
	fmt.Fprintf(w, "API Key: %s\n", d.MaskedKey)
	fmt.Fprintf(w, "URL: %s\n", d.URL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, d.URL)
	if err != nil {
		d.Err = err.Error()
		fmt.Fprintf(w, "\nAPI test failed: %v\n", err)
		return d
	}
	defer func() { _ = resp.Body.Close() }()

	d.Status = resp.StatusCode
	d.StatusText = http.StatusText(resp.StatusCode)
	for _, h := range diagnosticHeaders {
		if v := resp.Header.Get(h); v != "" {
			d.Headers[strings.ToLower(h)] = v
		}
	}

	fmt.Fprintf(w, "\nResponse Status: %d %s\n", d.Status, d.StatusText)
	for _, h := range diagnosticHeaders {
		if v, ok := d.Headers[strings.ToLower(h)]; ok {
			fmt.Fprintf(w, "  %s: %s\n", strings.ToLower(h), v)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		d.Err = fmt.Sprintf("read body: %v", err)
		fmt.Fprintf(w, "\nAPI test failed: %s\n", d.Err)
		return d
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.ErrorBody = truncate(string(body), sampleLimit)
		d.Hint = statusHint(resp.StatusCode)
		fmt.Fprintln(w, "\nAPI request failed")
		fmt.Fprintf(w, "Error Response: %s\n", d.ErrorBody)
		if d.Hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", d.Hint)
		}
		return d
	}

	d.OK = true
	var content cards.ContentDTO
	if err := json.Unmarshal(body, &content); err != nil {
		d.Err = fmt.Sprintf("decode body: %v", err)
		fmt.Fprintf(w, "\nResponse is not the expected envelope: %v\n", err)
		return d
	}

	d.Game = content.Game
	d.Version = content.Version
	d.LastUpdated = content.LastUpdated
	d.Sets = len(content.Sets)
	d.Cards = content.CardCount()

	fmt.Fprintln(w, "\nSUCCESS! API is working")
	fmt.Fprintf(w, "Content: game=%s version=%s lastUpdated=%s sets=%d cards=%d\n",
		d.Game, d.Version, d.LastUpdated, d.Sets, d.Cards)

	if len(content.Sets) > 0 {
		first := content.Sets[0]
		d.FirstSet = fmt.Sprintf("%s (%s, %d cards)", first.Name, first.ID, len(first.Cards))
		fmt.Fprintf(w, "First set: %s\n", d.FirstSet)
		if len(first.Cards) > 0 {
			if sample, err := json.MarshalIndent(first.Cards[0], "", "  "); err == nil {
				d.SampleCard = truncate(string(sample), sampleLimit)
				fmt.Fprintf(w, "First card sample:\n%s\n", d.SampleCard)
			}
		}
	}

	return d
}

func statusHint(status int) string {
	switch status {
	case http.StatusForbidden:
		return "403 Forbidden: the API key may not have access to this product yet"
	case http.StatusUnauthorized:
		return "401 Unauthorized: check the API key"
	case http.StatusTooManyRequests:
		return "429 Too Many Requests: the application rate limit was exceeded"
	}
	return ""
}

func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 10 {
		return key[:len(key)/2] + "..."
	}
	return key[:10] + "..."
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
