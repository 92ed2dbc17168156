package blocks

import (
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestCounterGenerator(t *testing.T) {
	t.Run("sequential", func(t *testing.T) {
		g := NewCounterGenerator("block")
		assert.Equal(t, "block-1", g.NewID(nil))
		assert.Equal(t, "block-2", g.NewID(takenSet()))
	})

	t.Run("skips ids already in the document", func(t *testing.T) {
		g := NewCounterGenerator("block")
		assert.Equal(t, "block-3", g.NewID(takenSet("block-1", "block-2")))
		assert.Equal(t, "block-5", g.NewID(takenSet("block-4")))
	})

	t.Run("concurrent callers never share an id", func(t *testing.T) {
		g := NewCounterGenerator("c")
		var (
			mu  sync.Mutex
			wg  sync.WaitGroup
			ids = map[string]struct{}{}
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					id := g.NewID(nil)
					mu.Lock()
					ids[id] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, ids, 1000)
	})
}

func TestUUIDGenerator(t *testing.T) {
	id := UUIDGenerator{}.NewID(nil)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	calls := 0
	id = UUIDGenerator{}.NewID(func(string) bool {
		calls++
		return calls == 1
	})
	assert.Equal(t, 2, calls)
	assert.NotEmpty(t, id)
}

func TestShortGenerator(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-z]{7}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := ShortGenerator{}.NewID(func(id string) bool { return seen[id] })
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestNewIDGenerator(t *testing.T) {
	testCases := []struct {
		strategy string
		want     any
	}{
		{strategy: "", want: &CounterGenerator{}},
		{strategy: IDStrategyCounter, want: &CounterGenerator{}},
		{strategy: IDStrategyUUID, want: UUIDGenerator{}},
		{strategy: IDStrategyShort, want: ShortGenerator{}},
	}
	for _, tc := range testCases {
		t.Run("strategy "+tc.strategy, func(t *testing.T) {
			g, err := NewIDGenerator(tc.strategy)
			require.NoError(t, err)
			assert.IsType(t, tc.want, g)
		})
	}

	_, err := NewIDGenerator("snowflake")
	assert.EqualError(t, err, "unsupported id strategy: snowflake")
}
