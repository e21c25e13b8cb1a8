package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "call_attempts.log"))
}

func TestLedger_AppendAndRecent(t *testing.T) {
	l := tempLedger(t)

	for i := 0; i < 5; i++ {
		err := l.Append(Attempt{
			Timestamp:  time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
			Caller:     fmt.Sprintf("+4670123456%d", i),
			Trusted:    i%2 == 0,
			GateOpened: i%2 == 0,
		})
		require.NoError(t, err)
	}

	attempts, err := l.Recent(3)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	// Most recent first
	assert.Equal(t, "+46701234564", attempts[0].Caller)
	assert.Equal(t, "+46701234563", attempts[1].Caller)
	assert.Equal(t, "+46701234562", attempts[2].Caller)
}

func TestLedger_RecentMissingFile(t *testing.T) {
	l := tempLedger(t)

	attempts, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestLedger_RecentSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call_attempts.log")
	l := New(path)

	require.NoError(t, l.Append(Attempt{Timestamp: time.Now(), Caller: "+46701234567", Trusted: true, GateOpened: true}))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, l.Append(Attempt{Timestamp: time.Now(), Caller: "+46709999999"}))

	attempts, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "+46709999999", attempts[0].Caller)
	assert.Equal(t, "+46701234567", attempts[1].Caller)
}

func TestLedger_Aggregate(t *testing.T) {
	l := tempLedger(t)

	require.NoError(t, l.Append(Attempt{Timestamp: time.Now(), Caller: "+1", Trusted: true, GateOpened: true}))
	require.NoError(t, l.Append(Attempt{Timestamp: time.Now(), Caller: "+2", Trusted: false, GateOpened: false}))
	// Trusted but the actuator failed: counts as denied in the aggregate.
	require.NoError(t, l.Append(Attempt{Timestamp: time.Now(), Caller: "+3", Trusted: true, GateOpened: false}))

	stats, err := l.Aggregate(100)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Successful: 1, Denied: 2}, stats)
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	l := tempLedger(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := l.Append(Attempt{Timestamp: time.Now(), Caller: fmt.Sprintf("+4670%07d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every record must parse back: no interleaved or torn lines.
	attempts, err := l.Recent(n)
	require.NoError(t, err)
	assert.Len(t, attempts, n)
}
