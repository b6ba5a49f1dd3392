package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrWordNotFound indicates the dictionary has no entry for the word.
var ErrWordNotFound = errors.New("dictionary: word not found")

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Client looks up word definitions using the Free Dictionary API.
// No API key is required.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a dictionary client
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL creates a client against a custom endpoint. Used in tests.
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	c.baseURL = baseURL
	return c
}

// Meaning is a single definition of a word
type Meaning struct {
	POS        string
	Definition string
	Example    string
}

// Entry is the summary result of a lookup: the first definition together
// with all parts of speech joined for display ("noun/verb").
type Entry struct {
	POS        string
	Definition string
}

// apiEntry mirrors the Free Dictionary API response shape
type apiEntry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (c *Client) fetch(word string) ([]apiEntry, error) {
	resp, err := c.client.Get(c.baseURL + "/" + url.PathEscape(word))
	if err != nil {
		return nil, fmt.Errorf("failed to reach dictionary API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dictionary API returned status %d", resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode dictionary response: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	return entries, nil
}

// Lookup returns the first definition of the word and a combined
// part-of-speech display string.
func (c *Client) Lookup(word string) (*Entry, error) {
	entries, err := c.fetch(word)
	if err != nil {
		return nil, err
	}

	meanings := entries[0].Meanings
	if len(meanings) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}

	first := meanings[0]
	definition := ""
	if len(first.Definitions) > 0 {
		definition = first.Definitions[0].Definition
	}

	var allPOS []string
	for _, m := range meanings {
		if m.PartOfSpeech != "" {
			allPOS = append(allPOS, m.PartOfSpeech)
		}
	}

	return &Entry{
		POS:        strings.Join(allPOS, "/"),
		Definition: definition,
	}, nil
}

// LookupAll returns every distinct definition of the word across all
// entries and parts of speech.
func (c *Client) LookupAll(word string) ([]Meaning, error) {
	entries, err := c.fetch(word)
	if err != nil {
		return nil, err
	}

	var meanings []Meaning
	seen := make(map[string]bool)

	for _, entry := range entries {
		for _, m := range entry.Meanings {
			for _, d := range m.Definitions {
				if seen[d.Definition] {
					continue
				}
				seen[d.Definition] = true
				meanings = append(meanings, Meaning{
					POS:        m.PartOfSpeech,
					Definition: d.Definition,
					Example:    d.Example,
				})
			}
		}
	}

	return meanings, nil
}
