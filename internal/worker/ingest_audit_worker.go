package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/worldhost-group/support-dashboard/internal/events"
)

// IngestAuditWorker subscribes to ticket events and writes an audit log
// entry for each, optionally forwarding the event to a webhook. Both actions
// are best-effort; a failed webhook call is logged and dropped.
type IngestAuditWorker struct {
	logger     *zap.Logger
	webhookURL string
	client     *http.Client
}

// NewIngestAuditWorker creates the worker.
func NewIngestAuditWorker(logger *zap.Logger, webhookURL string) *IngestAuditWorker {
	return &IngestAuditWorker{
		logger:     logger,
		webhookURL: strings.TrimSpace(webhookURL),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Register subscribes to the dispatcher.
func (w *IngestAuditWorker) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketBucketCreated, w.handle)
	dispatcher.Subscribe(events.EventTicketIngested, w.handle)
	dispatcher.Subscribe(events.EventTicketClaimed, w.handle)
	dispatcher.Subscribe(events.EventTicketDeleted, w.handle)
}

func (w *IngestAuditWorker) handle(ctx context.Context, event events.Event) error {
	w.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("base_id", event.BaseID))
	w.forward(ctx, event)
	return nil
}

func (w *IngestAuditWorker) forward(ctx context.Context, event events.Event) {
	if w.webhookURL == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	_ = resp.Body.Close()
}
