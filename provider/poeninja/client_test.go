package poeninja_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sig-0/exilian/provider/poeninja"
	"github.com/sig-0/exilian/storage/types"
)

// newResponse builds a canned HTTP response
func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Options(t *testing.T) {
	t.Parallel()

	t.Run("base URL", func(t *testing.T) {
		t.Parallel()

		// Arrange: create a mock http client
		ctrl := gomock.NewController(t)
		httpClient := NewMockHTTPClient(ctrl)

		baseURL := "http://localhost:8080/api/data/"

		// Assert: the request targets the overridden base URL
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(
					t,
					"http://localhost:8080/api/data/currencyoverview?league=Standard&type=Currency",
					req.URL.String(),
				)

				return newResponse(http.StatusOK, `{"lines":[]}`), nil
			}).
			Times(1)

		client := poeninja.NewClient(
			poeninja.WithHTTPClient(httpClient),
			poeninja.WithBaseURL(baseURL),
		)

		// Act
		_, err := poeninja.NewFetcher(client, poeninja.CurrencyFamily).
			Fetch(t.Context(), types.LeagueStandard, "Currency")

		require.NoError(t, err)
	})

	t.Run("headers", func(t *testing.T) {
		t.Parallel()

		// Arrange: create a mock http client
		ctrl := gomock.NewController(t)
		httpClient := NewMockHTTPClient(ctrl)

		// Assert: custom headers are sent along
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "bar", req.Header.Get("foo"))
				assert.Equal(t, "exilian-test", req.Header.Get("User-Agent"))

				return newResponse(http.StatusOK, `{"lines":[]}`), nil
			}).
			Times(1)

		client := poeninja.NewClient(
			poeninja.WithHTTPClient(httpClient),
			poeninja.WithHeader(http.Header{"foo": []string{"bar"}}),
			poeninja.WithUserAgent("exilian-test"),
		)

		// Act
		_, err := poeninja.NewFetcher(client, poeninja.ItemFamily).
			Fetch(t.Context(), types.LeagueStandard, "Tattoo")

		require.NoError(t, err)
	})

	t.Run("default user agent", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		httpClient := NewMockHTTPClient(ctrl)

		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "exilian", req.Header.Get("User-Agent"))
				assert.Equal(t, http.MethodGet, req.Method)

				return newResponse(http.StatusOK, `{"lines":[]}`), nil
			}).
			Times(1)

		client := poeninja.NewClient(poeninja.WithHTTPClient(httpClient))

		_, err := poeninja.NewFetcher(client, poeninja.CurrencyFamily).
			Fetch(t.Context(), types.LeagueStandard, "Currency")

		require.NoError(t, err)
	})
}

// trackedBody records whether it was read to the end and closed
type trackedBody struct {
	io.Reader

	drained bool
	closed  bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	if err == io.EOF {
		b.drained = true
	}

	return n, err
}

func (b *trackedBody) Close() error {
	b.closed = true

	return nil
}

func TestClient_RejectedBodyDrained(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	body := &trackedBody{Reader: strings.NewReader(strings.Repeat("overloaded ", 512))}

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusServiceUnavailable, Body: body}, nil).
		Times(1)

	client := poeninja.NewClient(poeninja.WithHTTPClient(httpClient))

	_, err := poeninja.NewFetcher(client, poeninja.CurrencyFamily).
		Fetch(t.Context(), types.LeagueStandard, "Currency")

	require.ErrorIs(t, err, poeninja.ErrRemoteRejected)
	assert.True(t, body.drained)
	assert.True(t, body.closed)
}
