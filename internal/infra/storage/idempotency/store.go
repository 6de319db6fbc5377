package idempotency

import "time"

// Entry запись по ключу идемпотентности.
// Pending = true означает, что запрос с этим ключом еще выполняется.
type Entry struct {
	Value   []byte
	Pending bool
}

// DefaultTTL время жизни ключа по умолчанию
const DefaultTTL = 24 * time.Hour
