package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/docuvoice/docuvoice/internal/core"
)

// accentTLD maps a language code to the Google Translate TLD whose regional
// voice suits it best. Unknown languages fall back to the default voice.
var accentTLD = map[string]string{
	"en": "com",
	"hi": "co.in",
	"mr": "co.in",
	"es": "es",
	"de": "de",
	"ta": "com",
	"ja": "co.jp",
	"ru": "ru",
	"ko": "co.kr",
}

// AccentTLD returns the synthesis-voice TLD for a language code.
func AccentTLD(lang string) string {
	if tld, ok := accentTLD[lang]; ok {
		return tld
	}
	return "com"
}

var _ core.SpeechSynthesizer = (*Client)(nil)

// Client synthesizes speech through the Google Translate TTS endpoint,
// returning MP3 bytes. One request handles at most ~4500 characters of text;
// the narration pipeline does the splitting.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if lang == "" {
		lang = "en"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)

	endpoint := fmt.Sprintf("https://translate.google.%s/translate_tts?%s", AccentTLD(lang), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tts request failed: %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts read body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned empty audio for lang %q", lang)
	}
	return audio, nil
}
