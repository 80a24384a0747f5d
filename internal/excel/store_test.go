package excel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreCachesSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Grade 1": {header, {"Q", "a", "b", "c", "d", "a"}},
	})
	store := NewStore(path)

	first, err := store.Questions("Grade 1")
	require.NoError(t, err)
	second, err := store.Questions("Grade 1")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Same(t, &first[0], &second[0])

	store.Reload()
	third, err := store.Questions("Grade 1")
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestStoreDoesNotCacheFailures(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Grade 1": {header, {"Q", "a", "b", "c", "d", "a"}},
	})
	store := NewStore(path)

	_, err := store.Questions("Grade 2")
	var missing *MissingSheetError
	require.True(t, errors.As(err, &missing))
	require.Empty(t, store.sheets)
}
