// Package search keeps a full-text index of the live history, fed by domain events.
// The index is a side effect: losing it never affects rooms or the durable store.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/domain/event"
	"strconv"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
)

const (
	fieldBody      = "body"
	fieldRoom      = "room"
	fieldSender    = "sender"
	fieldRealName  = "realname"
	fieldLang      = "lang"
	fieldTimestamp = "timestamp"
)

// Hit is one matching message.
type Hit struct {
	ID       string  `json:"id"`
	Room     string  `json:"room"`
	Sender   string  `json:"sender"`
	RealName string  `json:"realname"`
	Body     string  `json:"body"`
	Lang     string  `json:"lang"`
	At       float64 `json:"timestamp"`
	Score    float64 `json:"score"`
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open opens or creates the index described by config.
// Use bluge.DefaultConfig(path) on disk, bluge.InMemoryOnlyConfig() in tests.
func Open(config bluge.Config, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Index adds or replaces a message document.
func (i *Index) Index(m domain.Message) error {
	doc := toDocument(m)
	return i.writer.Update(doc.ID(), doc)
}

func (i *Index) Delete(messageID string) error {
	return i.writer.Delete(bluge.Identifier(messageID))
}

// Reindex loads a full history, used at boot since the index only sees new events.
func (i *Index) Reindex(messages []domain.Message) error {
	batch := bluge.NewBatch()
	for _, m := range messages {
		doc := toDocument(m)
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return err
	}
	i.log.Info("Search index rebuilt", "documents", len(messages))
	return nil
}

// Search returns the best hits and the total number of matches.
func (i *Index) Search(ctx context.Context, q Query) ([]Hit, uint64, error) {
	q = q.Normalize()
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery()
	if q.Terms != "" {
		query.AddMust(bluge.NewMatchQuery(q.Terms).SetField(fieldBody))
	} else {
		query.AddMust(bluge.NewMatchAllQuery())
	}
	if q.Room != "" {
		query.AddMust(bluge.NewTermQuery(q.Room).SetField(fieldRoom))
	}
	if q.Lang != "" {
		query.AddMust(bluge.NewTermQuery(q.Lang).SetField(fieldLang))
	}

	request := bluge.NewTopNSearch(q.Limit, query).WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case fieldBody:
				hit.Body = string(value)
			case fieldRoom:
				hit.Room = string(value)
			case fieldSender:
				hit.Sender = string(value)
			case fieldRealName:
				hit.RealName = string(value)
			case fieldLang:
				hit.Lang = string(value)
			case fieldTimestamp:
				hit.At, _ = strconv.ParseFloat(string(value), 64)
			}
			return true
		})
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}
	return hits, iterator.Aggregations().Count(), nil
}

// Consume keeps the index in step with the live history.
func (i *Index) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		return i.Index(evt.Message)
	case event.MessageRedacted:
		i.log.Debug("Removing redacted message from index", "message", evt.MessageID)
		return i.Delete(evt.MessageID)
	}
	return nil
}

func toDocument(m domain.Message) *bluge.Document {
	doc := bluge.NewDocument(m.ID).
		AddField(bluge.NewTextField(fieldBody, m.Body).StoreValue()).
		AddField(bluge.NewKeywordField(fieldRoom, string(m.Room)).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, m.Sender).StoreValue()).
		AddField(bluge.NewKeywordField(fieldTimestamp, strconv.FormatFloat(m.Seconds(), 'f', -1, 64)).StoreValue())
	if m.RealName != "" {
		doc.AddField(bluge.NewKeywordField(fieldRealName, m.RealName).StoreValue())
	}
	if lang := DetectLang(m.Body); lang != "" {
		doc.AddField(bluge.NewKeywordField(fieldLang, lang).StoreValue())
	}
	return doc
}

// DetectLang returns the ISO 639-1 code of text, empty when unknown.
func DetectLang(text string) string {
	return whatlanggo.Detect(text).Lang.Iso6391()
}
