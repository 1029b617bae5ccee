package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/internal/domain"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

// Producer публикует события обработки обратной связи в Kafka.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// feedbackEventMsg — схема события в топике обратной связи.
type feedbackEventMsg struct {
	EventID      string  `json:"event_id"`
	TenderID     string  `json:"tender_id"`
	VendorID     string  `json:"vendor_id"`
	MatchSuccess bool    `json:"match_success"`
	Selected     bool    `json:"selected"`
	Rating       *int    `json:"rating,omitempty"`
	Comments     string  `json:"comments,omitempty"`
	Adjustment   string  `json:"adjustment"`
	Reason       string  `json:"reason,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Timestamp    int64   `json:"event_timestamp"`
}

// PublishFeedbackEvent отправляет событие обратной связи. Ключ сообщения —
// идентификатор поставщика, чтобы события по одному поставщику шли по порядку.
func (p *Producer) PublishFeedbackEvent(ctx context.Context, event *domain.FeedbackEvent) error {
	value, err := json.Marshal(feedbackEventMsg{
		EventID:      event.ID,
		TenderID:     event.TenderID,
		VendorID:     event.VendorID,
		MatchSuccess: event.MatchSuccess,
		Selected:     event.Selected,
		Rating:       event.Rating,
		Comments:     event.Comments,
		Adjustment:   string(event.Adjustment),
		Reason:       event.Reason,
		Weight:       event.Weight,
		Timestamp:    event.CreatedAt.UnixNano(),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.VendorID),
		Value: value,
	})
}

// EnsureTopic создает топик, если его еще нет.
func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
