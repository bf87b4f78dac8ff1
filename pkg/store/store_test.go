package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zrcal/zrcal/pkg/schedule"
	zrcaltesting "github.com/zrcal/zrcal/pkg/testing"
	"github.com/zrcal/zrcal/pkg/waste"
)

func TestZrcal_Store_New_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing logger", func(t *testing.T) {
		t.Parallel()
		s, err := NewStore(StoreConfig{})
		require.Error(t, err)
		require.Nil(t, s)
		require.Contains(t, err.Error(), "logger is required")
	})

	t.Run("missing pool", func(t *testing.T) {
		t.Parallel()
		s, err := NewStore(StoreConfig{Logger: zrcaltesting.NewLogger()})
		require.Error(t, err)
		require.Nil(t, s)
		require.Contains(t, err.Error(), "postgres pool is required")
	})
}

func TestZrcal_Store_ReplaceWindow_EmptyBatchTouchesNothing(t *testing.T) {
	t.Parallel()

	// No pool at all: an empty batch must return before any database
	// access, otherwise the unbounded delete window would wipe the type.
	s := &Store{log: zrcaltesting.NewLogger()}

	err := s.ReplaceWindow(context.Background(), &schedule.Batch{Type: waste.Papier})
	require.NoError(t, err)
}
