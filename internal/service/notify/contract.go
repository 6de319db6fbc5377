package notify

import "context"

// Notifier доставляет уведомление во внешний канал (Kafka, лог)
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Metrics счетчик результатов отправки
type Metrics interface {
	IncNotification(event, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
