package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/cricket-league/models"
)

func TestLedgerCredit(t *testing.T) {
	ctx := context.Background()

	params := CreditParams{
		TransactionID: "tx-abc",
		OrganizerID:   10,
		Amount:        500000,
		Reason:        "enrollment fee",
	}

	t.Run("credits balance and records transaction", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		service := NewLedgerService(repo)

		tx, err := service.Credit(ctx, nil, params)
		require.NoError(t, err)
		assert.Equal(t, models.DirectionCredit, tx.Direction)
		assert.Equal(t, models.TransactionStatusSuccess, tx.Status)

		balance, err := service.GetBalance(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), balance.Balance)
	})

	t.Run("repeated key credits exactly once", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		service := NewLedgerService(repo)

		first, err := service.Credit(ctx, nil, params)
		require.NoError(t, err)

		second, err := service.Credit(ctx, nil, params)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		balance, err := service.GetBalance(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), balance.Balance)
	})

	t.Run("distinct keys accumulate", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		service := NewLedgerService(repo)

		_, err := service.Credit(ctx, nil, params)
		require.NoError(t, err)

		other := params
		other.TransactionID = "tx-def"
		other.Amount = 250000
		_, err = service.Credit(ctx, nil, other)
		require.NoError(t, err)

		balance, err := service.GetBalance(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(750000), balance.Balance)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		service := NewLedgerService(newFakeLedgerRepo())

		bad := params
		bad.Amount = 0
		_, err := service.Credit(ctx, nil, bad)
		assert.ErrorIs(t, err, ErrInvalidCreditAmount)

		bad.Amount = -1
		_, err = service.Credit(ctx, nil, bad)
		assert.ErrorIs(t, err, ErrInvalidCreditAmount)
	})
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	service := NewLedgerService(newFakeLedgerRepo())

	// An organizer with no credits yet reads as a zero balance.
	balance, err := service.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, balance.OrganizerID)
	assert.Zero(t, balance.Balance)
}
