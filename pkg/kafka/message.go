package kafka

import (
	"errors"
	"time"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}
