package voice

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/docuvoice/docuvoice/internal/core"
)

var _ core.SpeechRecognizer = (*GoogleRecognizer)(nil)

// GoogleRecognizer posts captured audio to the Google full-duplex speech API
// and returns the first transcript alternative.
type GoogleRecognizer struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoogleRecognizer(apiKey string, timeout time.Duration) *GoogleRecognizer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleRecognizer{
		baseURL:    "https://www.google.com/speech-api/v2/recognize",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *GoogleRecognizer) Recognize(ctx context.Context, audio []byte, lang string) (string, error) {
	if lang == "" {
		lang = "en-US"
	}

	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", lang)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/x-flac; rate=16000")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("speech request failed: %s", resp.Status)
	}

	// The endpoint streams one JSON object per line; the first line with a
	// non-empty result carries the transcript.
	type respLine struct {
		Result []struct {
			Alternative []struct {
				Transcript string `json:"transcript"`
			} `json:"alternative"`
		} `json:"result"`
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rl respLine
		if err := json.Unmarshal(line, &rl); err != nil {
			continue
		}
		for _, r := range rl.Result {
			if len(r.Alternative) > 0 {
				return r.Alternative[0].Transcript, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("speech read body: %w", err)
	}

	// The service answered but recognized nothing.
	return "", nil
}
