package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsInitialLedgerEntry(t *testing.T) {
	// A fresh row posts its opening stock.
	assert.True(t, needsInitialLedgerEntry(true, 10))

	// A pre-existing row keeps its ledger history, even when it happens
	// to hold the requested quantity already.
	assert.False(t, needsInitialLedgerEntry(false, 10))

	// Zero opening stock has nothing to post.
	assert.False(t, needsInitialLedgerEntry(true, 0))
}
