package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequestType(t *testing.T) {
	assert.Equal(t, RequestTowels, ParseRequestType(" towels "))
	assert.Equal(t, RequestLateCheckout, ParseRequestType("Late_Checkout"))
	assert.Equal(t, RequestType("SPA_BOOKING"), ParseRequestType("spa_booking"), "unknown types are kept")
	assert.Equal(t, RequestType(""), ParseRequestType("   "))
}
