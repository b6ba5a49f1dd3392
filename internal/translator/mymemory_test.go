package translator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, body string) (*Client, *http.Request) {
	t.Helper()
	var captured http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewWithBaseURL(server.URL), &captured
}

func TestTranslate(t *testing.T) {
	client, captured := newTestServer(t, `{"responseStatus":200,"responseData":{"translatedText":"你好"}}`)

	got, err := client.Translate("hello")
	require.NoError(t, err)
	assert.Equal(t, "你好", got)

	assert.Equal(t, "hello", captured.URL.Query().Get("q"))
	assert.Equal(t, "en|zh-TW", captured.URL.Query().Get("langpair"))
}

func TestTranslateEmptyInput(t *testing.T) {
	client := New()

	got, err := client.Translate("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranslateAPIFailureStatus(t *testing.T) {
	client, _ := newTestServer(t, `{"responseStatus":403,"responseData":{"translatedText":""}}`)

	got, err := client.Translate("hello")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranslateWarningPayload(t *testing.T) {
	client, _ := newTestServer(t, `{"responseStatus":200,"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"}}`)

	got, err := client.Translate("hello")
	require.NoError(t, err)
	assert.Empty(t, got)
}
