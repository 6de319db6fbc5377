package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultDispatchTimeout = 10 * time.Second

// Trigger отправляет уведомления асинхронно (fire-and-forget).
// Ошибки и паники отправки логируются и никогда не доходят до вызывающего кода.
type Trigger struct {
	notifier Notifier
	metrics  Metrics
	logger   Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewTrigger создает триггер. timeout ограничивает одну отправку.
func NewTrigger(notifier Notifier, metrics Metrics, logger Logger, timeout time.Duration) *Trigger {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &Trigger{
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
	}
}

// Fire ставит уведомление в отправку и сразу возвращает управление.
// Контекст запроса не используется: отправка переживает завершение HTTP ответа.
func (t *Trigger) Fire(event Event, msg Message) {
	msg.Event = event

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.dispatch(msg)
	}()
}

// Wait дожидается завершения всех отправок (graceful shutdown, тесты)
func (t *Trigger) Wait() {
	t.wg.Wait()
}

func (t *Trigger) dispatch(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Notify: panic while sending %s for commitment=%s: %v", msg.Event, msg.CommitmentID, r)
			t.inc(msg.Event, "panic")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.notifier.Notify(ctx, msg); err != nil {
		t.logger.Warn("Notify: failed to send %s for commitment=%s: %v", msg.Event, msg.CommitmentID, err)
		t.inc(msg.Event, "error")
		return
	}

	t.logger.Info("Notify: %s sent for commitment=%s, bookings=%d", msg.Event, msg.CommitmentID, len(msg.BookingIDs))
	t.inc(msg.Event, "success")
}

func (t *Trigger) inc(event Event, result string) {
	if t.metrics != nil {
		t.metrics.IncNotification(string(event), result)
	}
}

// LogNotifier пишет уведомления в лог вместо внешнего канала
type LogNotifier struct {
	logger Logger
}

func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	if msg.CommitmentID == "" {
		return fmt.Errorf("notify: empty commitment id for %s", msg.Event)
	}
	n.logger.Info("Notification %s: commitment=%s, customer=%s <%s>, dates=%v, total=%.2f",
		msg.Event, msg.CommitmentID, msg.CustomerName, msg.CustomerEmail, msg.Dates, msg.TotalAmount)
	return nil
}
