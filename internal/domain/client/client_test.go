package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

func newDupont(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("Dupont", "Jean", "jean.dupont@example.com", "01 23 45 67 89", "123 rue de la Paix, Paris")
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	c := newDupont(t)
	assert.Equal(t, "Dupont", c.LastName())
	assert.Equal(t, "Jean Dupont", c.FullName())
	assert.Equal(t, int64(0), c.ID())
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name                               string
		last, first, email, phone, address string
	}{
		{"short last name", "D", "Jean", "jean@example.com", "0123456789", ""},
		{"short first name", "Dupont", "J", "jean@example.com", "0123456789", ""},
		{"bad email", "Dupont", "Jean", "not-an-email", "0123456789", ""},
		{"display name email", "Dupont", "Jean", "Jean <jean@example.com>", "0123456789", ""},
		{"short phone", "Dupont", "Jean", "jean@example.com", "01 23 45", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.last, tt.first, tt.email, tt.phone, tt.address)
			assert.Error(t, err)
		})
	}
}

func TestUpdateContact_KeepsUnsetFields(t *testing.T) {
	c := newDupont(t)
	require.NoError(t, c.UpdateContact("nouveau@example.com", "06 12 34 56 78", ""))
	assert.Equal(t, "06 12 34 56 78", c.Phone())
	assert.Equal(t, "nouveau@example.com", c.Email())
	assert.Equal(t, "123 rue de la Paix, Paris", c.Address())

	assert.Error(t, c.UpdateContact("", "123", ""))
	assert.Equal(t, "06 12 34 56 78", c.Phone())
}

func historyEntry(t *testing.T, price int64, status string) *reservation.Reservation {
	t.Helper()
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := reservation.Restore(1, 1, 1, start, start.AddDate(0, 0, 2), &price, status, 1, start, start)
	require.NoError(t, err)
	return r
}

func TestSummarize(t *testing.T) {
	history := []*reservation.Reservation{
		historyEntry(t, 15000, "completed"),
		historyEntry(t, 25000, "completed"),
		historyEntry(t, 10000, "confirmed"),
		historyEntry(t, 99999, "cancelled"),
	}
	s := Summarize(history, 0)
	assert.Len(t, s.Active, 1)
	assert.Len(t, s.Past, 2)
	assert.Equal(t, int64(40000), s.TotalSpentCents)
	assert.False(t, s.Loyal)
}

func TestSummarize_Loyalty(t *testing.T) {
	var history []*reservation.Reservation
	for i := 0; i < 6; i++ {
		history = append(history, historyEntry(t, 10000, "completed"))
	}
	assert.True(t, Summarize(history, DefaultLoyaltyThreshold).Loyal)
	assert.False(t, Summarize(history[:3], DefaultLoyaltyThreshold).Loyal)
	assert.True(t, Summarize(history[:3], 3).Loyal)
}
