package kafkanotifier

import "errors"

var (
	// ErrInternal возвращается при ошибках подготовки сообщения
	ErrInternal = errors.New("kafkanotifier: internal error")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("kafkanotifier: failed to publish message")
)
