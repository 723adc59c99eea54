package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Search(t *testing.T) {
	var gotAuth string
	var gotReq completionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(completionResponse{
			ID: "resp-1",
			Choices: []choice{{
				Message: message{Role: "assistant", Content: "Certified by PETA. SOURCES CHECKED: 3"},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	result, err := c.Search(context.Background(), "Is Pacifica cruelty-free?")
	require.NoError(t, err)
	assert.Equal(t, "Certified by PETA. SOURCES CHECKED: 3", result)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, defaultModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "Is Pacifica cruelty-free?", gotReq.Messages[1].Content)
}

func TestHTTPClient_Search_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestHTTPClient_Search_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse{ID: "resp-2"})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestMockClient(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	loreal, err := m.Search(ctx, "Is L'Oreal cruelty-free?")
	require.NoError(t, err)
	assert.Contains(t, loreal, "tests on animals")
	assert.Contains(t, loreal, "SOURCES CHECKED: 2")

	mascara, err := m.Search(ctx, "cruelty-free mascara alternatives")
	require.NoError(t, err)
	assert.Contains(t, mascara, "e.l.f. Big Mood Mascara")

	other, err := m.Search(ctx, "random brand nobody heard of")
	require.NoError(t, err)
	assert.Equal(t, "Search results for: random brand nobody heard of", other)
}
