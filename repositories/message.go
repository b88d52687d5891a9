//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"

	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, message domain.Message) error
	GetMessages(ctx context.Context, room domain.RoomID) ([]domain.Message, error)
	GetAllMessages(ctx context.Context) ([]domain.Message, error)
}

type MessageRepository struct {
	store contract.TableStore
	log   *slog.Logger
}

func NewMessageRepository(store contract.TableStore, log *slog.Logger) MessageRepository {
	return MessageRepository{store: store, log: log}
}

// StoreMessage appends one row to the messages table.
func (m MessageRepository) StoreMessage(ctx context.Context, message domain.Message) error {
	return m.store.Insert(ctx, TableMessages, fromMessage(message))
}

// GetMessages returns the stored history of one room in insertion order.
func (m MessageRepository) GetMessages(ctx context.Context, room domain.RoomID) ([]domain.Message, error) {
	rows, err := m.store.FetchAll(ctx, TableMessages, map[string]string{"room": string(room)})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row contract.Row, _ int) domain.Message { return toMessage(row) }), nil
}

func (m MessageRepository) GetAllMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := m.store.FetchAll(ctx, TableMessages, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row contract.Row, _ int) domain.Message { return toMessage(row) }), nil
}

func fromMessage(message domain.Message) contract.Row {
	return contract.Row{
		"uid":       message.ID,
		"timestamp": message.Seconds(),
		"room":      string(message.Room),
		"sender":    message.Sender,
		"realname":  message.RealName,
		"message":   message.Body,
	}
}

func toMessage(row contract.Row) domain.Message {
	return domain.Message{
		ID:       stringOf(row, "uid"),
		At:       domain.FromSeconds(floatOf(row, "timestamp")),
		Room:     domain.RoomID(stringOf(row, "room")),
		Sender:   stringOf(row, "sender"),
		RealName: stringOf(row, "realname"),
		Body:     stringOf(row, "message"),
	}
}
