package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alejandrodnm/predictbet/internal/adapters/ledger"
	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Transfer(t *testing.T) {
	book := ledger.NewMemory(map[domain.Account]uint64{"a": 100})
	ctx := context.Background()

	require.NoError(t, book.Transfer(ctx, "a", "b", 60))
	assert.Equal(t, uint64(40), book.Balance("a"))
	assert.Equal(t, uint64(60), book.Balance("b"))

	journal := book.Journal()
	require.Len(t, journal, 1)
	assert.NotEmpty(t, journal[0].Ref)
	assert.Equal(t, uint64(60), journal[0].Amount)
}

func TestMemory_InsufficientFunds(t *testing.T) {
	book := ledger.NewMemory(map[domain.Account]uint64{"a": 50})

	err := book.Transfer(context.Background(), "a", "b", 51)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// Todo o nada: sin efectos
	assert.Equal(t, uint64(50), book.Balance("a"))
	assert.Zero(t, book.Balance("b"))
	assert.Empty(t, book.Journal())
}

func TestMemory_FailNextIsOneShot(t *testing.T) {
	book := ledger.NewMemory(map[domain.Account]uint64{"a": 100})
	boom := errors.New("boom")
	book.FailNext(boom)

	err := book.Transfer(context.Background(), "a", "b", 10)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(100), book.Balance("a"))

	require.NoError(t, book.Transfer(context.Background(), "a", "b", 10))
	assert.Equal(t, uint64(90), book.Balance("a"))
}

func TestMemory_ContextCancelled(t *testing.T) {
	book := ledger.NewMemory(map[domain.Account]uint64{"a": 100})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := book.Transfer(ctx, "a", "b", 10)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(100), book.Balance("a"))
}

// TestMemory_ConcurrentTransfers verifica que el total del sistema se
// conserva bajo transferencias concurrentes.
func TestMemory_ConcurrentTransfers(t *testing.T) {
	book := ledger.NewMemory(map[domain.Account]uint64{"a": 1_000, "b": 1_000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = book.Transfer(context.Background(), "a", "b", 10)
		}()
		go func() {
			defer wg.Done()
			_ = book.Transfer(context.Background(), "b", "a", 10)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(2_000), book.Balance("a")+book.Balance("b"))
	assert.Len(t, book.Journal(), 100)
}
