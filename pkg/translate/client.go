// Package translate wraps the MyMemory translation API.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: "https://api.mymemory.translated.net/get",
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus json.Number `json:"responseStatus"`
}

// Translate converts Turkish text into the target language ("en", "de", ...).
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if targetLang == "" {
		targetLang = "en"
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "tr|"+targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.ResponseStatus.String() != "200" {
		return "", fmt.Errorf("translate api status %s", data.ResponseStatus.String())
	}
	return data.ResponseData.TranslatedText, nil
}
