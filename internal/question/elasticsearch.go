package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"
)

// ElasticsearchOptions locates the imported question documents.
type ElasticsearchOptions struct {
	Addresses []string
	Username  string
	Password  string

	// Index is an index name or pattern; each matched index is a collection.
	Index string

	// Timeout bounds each search, including the client's retries.
	// Zero uses DefaultLookupTimeout.
	Timeout time.Duration
}

// Elasticsearch draws random question documents from an index pattern.
type Elasticsearch struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
}

// NewElasticsearch creates an Elasticsearch backend.
func NewElasticsearch(opts ElasticsearchOptions) (*Elasticsearch, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	esCfg := elasticsearch.Config{
		Addresses: opts.Addresses,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			ResponseHeaderTimeout: timeout,
		},
	}
	if opts.Username != "" {
		esCfg.Username = opts.Username
		esCfg.Password = opts.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	index := opts.Index
	if index == "" {
		index = "questions-*"
	}
	return &Elasticsearch{client: client, index: index, timeout: timeout}, nil
}

// randomQuery scores every document randomly and keeps the top hit.
var randomQuery = map[string]any{
	"size": 1,
	"query": map[string]any{
		"function_score": map[string]any{
			"query":        map[string]any{"match_all": map[string]any{}},
			"random_score": map[string]any{},
			"boost_mode":   "replace",
		},
	},
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `mapstructure:"hits"`
	} `mapstructure:"hits"`
}

type searchHit struct {
	Index  string         `mapstructure:"_index"`
	ID     string         `mapstructure:"_id"`
	Source map[string]any `mapstructure:"_source"`
}

func (e *Elasticsearch) RandomDocument(ctx context.Context) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(randomQuery)
	if err != nil {
		return Document{}, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithIgnoreUnavailable(true),
		e.client.Search.WithAllowNoIndices(true),
	)
	if err != nil {
		return Document{}, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Document{}, fmt.Errorf("search %s: %s", e.index, res.Status())
	}

	var raw map[string]any
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("decode search response: %w", err)
	}

	var parsed searchResponse
	if err := mapstructure.Decode(raw, &parsed); err != nil {
		return Document{}, fmt.Errorf("decode search hits: %w", err)
	}
	if len(parsed.Hits.Hits) == 0 {
		return Document{}, ErrEmptyCorpus
	}

	hit := parsed.Hits.Hits[0]
	fields := make(map[string]any, len(hit.Source)+1)
	for k, v := range hit.Source {
		fields[k] = v
	}
	if hit.ID != "" {
		fields["_id"] = hit.ID
	}
	return Document{Collection: hit.Index, Fields: fields}, nil
}
