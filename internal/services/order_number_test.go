package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "ORD-20240307-000042", FormatOrderNumber(day, 42))
	assert.Equal(t, "ORD-20240307-123456", FormatOrderNumber(day, 123456))
	// Sequences beyond six digits widen rather than truncate
	assert.Equal(t, "ORD-20240307-1234567", FormatOrderNumber(day, 1234567))
}
