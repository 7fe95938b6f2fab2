package cameras

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/errors"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/logger"
)

// mockRoundTripper allows intercepting HTTP requests without a server
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newResponse(req *http.Request, statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}
}

func newMockedClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.httpClient = &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient(10*time.Second, logger.NewTestLogger())

	require.NotNil(t, client)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	assert.NotEmpty(t, client.headers["User-Agent"])
}

func TestFetchPage(t *testing.T) {
	client := newMockedClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.NotEmpty(t, req.Header.Get("User-Agent"))
		return newResponse(req, http.StatusOK, "<html>mosaic</html>"), nil
	})

	body, err := client.FetchPage("https://cic.tenerife.es/web3/mosaico_cctv/mosaico.html")
	require.NoError(t, err)
	assert.Equal(t, "<html>mosaic</html>", body)
}

func TestFetchPageStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantType errors.ErrorType
	}{
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusInternalServerError, errors.ErrorTypeServerError},
		{http.StatusBadGateway, errors.ErrorTypeServerError},
		{http.StatusForbidden, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			client := newMockedClient(t, func(req *http.Request) (*http.Response, error) {
				return newResponse(req, tt.status, ""), nil
			})

			_, err := client.FetchPage("https://example.com/page.html")
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))

			var scraperErr *errors.Error
			require.ErrorAs(t, err, &scraperErr)
			assert.Equal(t, tt.status, scraperErr.Code)
		})
	}
}

func TestFetchPageTransportError(t *testing.T) {
	client := newMockedClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := client.FetchPage("https://example.com/page.html")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
}

func TestDownloadImage(t *testing.T) {
	imageBytes := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cctv/cam1.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(imageBytes)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewTestLogger())

	data, err := client.DownloadImage(server.URL + "/cctv/cam1.jpg")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)

	_, err = client.DownloadImage(server.URL + "/cctv/missing.jpg")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))
}

func TestSetHeader(t *testing.T) {
	var gotHeader string
	client := newMockedClient(t, func(req *http.Request) (*http.Response, error) {
		gotHeader = req.Header.Get("X-Custom")
		return newResponse(req, http.StatusOK, "ok"), nil
	})

	client.SetHeader("X-Custom", "value")
	_, err := client.FetchPage("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "value", gotHeader)
}
