package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/database"
	"curator/internal/events"
	"curator/internal/logger"
	"curator/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "curator-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	processor := processors.NewEventProcessor(cfg, log, db)

	return &Worker{
		config:    cfg,
		logger:    log,
		reader:    reader,
		processor: processor,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for catalog events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.processor.Process(context.Background(), event); err != nil {
			w.logger.Error("Failed to process %s event: %v", event.Type, err)
			continue
		}

		w.logger.Debug("Processed %s event for product %s", event.Type, event.ProductID)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
