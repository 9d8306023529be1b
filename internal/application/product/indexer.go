package product

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

// Indexer mirrors product writes into Elasticsearch and serves the search
// endpoint. All methods degrade to no-ops when no client is configured;
// index failures are logged, never surfaced to the caller.
type Indexer struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *Indexer {
	return &Indexer{ES: es, Index: index, Logger: logger}
}

func (ix *Indexer) enabled() bool {
	return ix != nil && ix.ES != nil && ix.Index != ""
}

// IndexProduct upserts the product document.
func (ix *Indexer) IndexProduct(ctx context.Context, d Dto) {
	if !ix.enabled() {
		return
	}
	doc := map[string]any{
		"id":             d.ID,
		"name":           d.Name,
		"description":    d.Description,
		"price":          d.Price,
		"stock_quantity": d.StockQuantity,
		"sku":            d.SKU,
		"is_active":      d.IsActive,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      ix.Index,
		DocumentID: strconv.FormatInt(d.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		ix.Logger.WithError(err).WithField("product_id", d.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		ix.Logger.WithField("status", res.Status()).WithField("product_id", d.ID).Warn("es index response error")
	}
}

// RemoveProduct deletes the product document.
func (ix *Indexer) RemoveProduct(ctx context.Context, id int64) {
	if !ix.enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: ix.Index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		ix.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query on name, description and sku.
func (ix *Indexer) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !ix.enabled() {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "sku^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
