// Package weather wraps the OpenWeather current-conditions API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrCityNotFound reports that the city name was not recognized by the
// upstream API, so the caller can ask the user for a city instead of failing.
var ErrCityNotFound = errors.New("city not found")

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Report is the subset of the upstream response the bot speaks about.
type Report struct {
	City        string
	Description string
	TempCelsius float64
}

type apiResponse struct {
	Cod     json.Number `json:"cod"` // upstream sends both "200" and 200
	Message string      `json:"message"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Current fetches the current weather for a city with Turkish descriptions
// and metric units.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.APIKey)
	q.Set("lang", "tr")
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	if data.Cod.String() != "200" {
		if data.Message == "city not found" {
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("weather api error: %s", data.Message)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather api returned no conditions for %q", city)
	}

	return &Report{
		City:        city,
		Description: data.Weather[0].Description,
		TempCelsius: data.Main.Temp,
	}, nil
}
