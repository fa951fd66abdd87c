package question

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElasticsearch answers _search requests with the given body.
func fakeElasticsearch(t *testing.T, status int, body string, gotPath *string, gotQuery *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		if gotQuery != nil && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, gotQuery)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestElasticsearch_RandomDocument(t *testing.T) {
	var path string
	var query map[string]any
	srv := fakeElasticsearch(t, http.StatusOK, `{
		"took": 3,
		"hits": {
			"total": {"value": 42, "relation": "eq"},
			"hits": [{
				"_index": "questions-golang",
				"_id": "q-17",
				"_score": 0.91,
				"_source": {"問題": "什麼是 context？", "答案": "攜帶取消訊號與期限", "_source_file": "golang.csv"}
			}]
		}
	}`, &path, &query)

	es, err := NewElasticsearch(ElasticsearchOptions{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	doc, err := es.RandomDocument(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/questions-*/_search"), "path = %s", path)
	assert.Contains(t, query, "query")
	assert.Equal(t, "questions-golang", doc.Collection)
	assert.Equal(t, "q-17", doc.Fields["_id"])

	q, ok := FromDocument(doc)
	require.True(t, ok)
	assert.Equal(t, Question{Text: "什麼是 context？", StandardAnswer: "攜帶取消訊號與期限", Source: "questions-golang"}, q)
}

func TestElasticsearch_NoHits(t *testing.T) {
	srv := fakeElasticsearch(t, http.StatusOK, `{"hits": {"total": {"value": 0}, "hits": []}}`, nil, nil)

	es, err := NewElasticsearch(ElasticsearchOptions{Addresses: []string{srv.URL}, Index: "interview"})
	require.NoError(t, err)

	_, err = es.RandomDocument(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestElasticsearch_ErrorStatus(t *testing.T) {
	srv := fakeElasticsearch(t, http.StatusInternalServerError, `{"error": "boom"}`, nil, nil)

	es, err := NewElasticsearch(ElasticsearchOptions{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = es.RandomDocument(context.Background())
	require.Error(t, err)

	// The corpus hides the failure behind the built-in question.
	q := NewCorpus(es, nil).Next(context.Background())
	assert.Equal(t, Default(), q)
}

func TestElasticsearch_StalledClusterTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	es, err := NewElasticsearch(ElasticsearchOptions{
		Addresses: []string{srv.URL},
		Timeout:   100 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	q := NewCorpus(es, nil).Next(context.Background())
	assert.Equal(t, Default(), q)
	assert.Less(t, time.Since(start), 3*time.Second)
}
