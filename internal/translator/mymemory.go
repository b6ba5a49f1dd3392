package translator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mymemory.translated.net/get"

// Client translates English text to Traditional Chinese using the MyMemory
// API. Free, no key required.
type Client struct {
	baseURL  string
	langPair string
	client   *http.Client
}

// New creates a translation client for English to Traditional Chinese
func New() *Client {
	return &Client{
		baseURL:  defaultBaseURL,
		langPair: "en|zh-TW",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL creates a client against a custom endpoint. Used in tests.
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	c.baseURL = baseURL
	return c
}

// apiResponse mirrors the MyMemory API response shape
type apiResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate returns the translated text, or an empty string if the service
// could not translate it. Transport failures are returned as errors.
func (c *Client) Translate(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", c.langPair)

	resp, err := c.client.Get(c.baseURL + "?" + query.Encode())
	if err != nil {
		return "", fmt.Errorf("failed to reach translation API: %w", err)
	}
	defer resp.Body.Close()

	var response apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	if response.ResponseStatus != http.StatusOK {
		return "", nil
	}
	translated := response.ResponseData.TranslatedText
	// The API reports quota and language errors inside the payload.
	if strings.Contains(translated, "MYMEMORY WARNING") {
		return "", nil
	}
	return translated, nil
}
