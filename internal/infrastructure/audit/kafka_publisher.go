// Package audit implements the AuditService interface against Kafka
// and a relational fallback store.
package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/pkg/logger"
)

// messageWriter is the subset of kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Kafka-backed implementation of the AuditService.
type KafkaPublisher struct {
	writer    messageWriter
	signerKey string
	logger    logger.Logger
}

// NewKafkaPublisher creates a new KafkaPublisher for the configured topic.
// signerKey, when non-empty, is used to attach an HMAC signature header
// to every published event.
func NewKafkaPublisher(cfg config.KafkaConfig, signerKey string, log logger.Logger) service.AuditService {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &KafkaPublisher{
		writer:    writer,
		signerKey: signerKey,
		logger:    log.WithComponent("KafkaPublisher"),
	}
}

// LogEvent sends an audit event to the Kafka topic. Events are keyed by
// tenant so a tenant's trail stays ordered within a partition.
func (p *KafkaPublisher) LogEvent(ctx context.Context, event *models.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal audit event", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TenantID, 10)),
		Value: payload,
	}
	if p.signerKey != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   "x-audit-signature",
			Value: []byte(SignPayload(payload, p.signerKey)),
		})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(ctx, "failed to write audit event to kafka", err,
			logger.String("event_type", string(event.EventType)))
		return err
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
