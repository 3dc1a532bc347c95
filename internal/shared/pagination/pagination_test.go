package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	req, err := Normalize(0, 0)
	require.NoError(t, err)
	require.Equal(t, Request{Page: 1, Limit: DefaultLimit}, req)

	req, err = Normalize(3, 500)
	require.NoError(t, err)
	require.Equal(t, MaxLimit, req.Limit)
	require.Equal(t, 200, req.Offset())

	_, err = Normalize(-1, 10)
	require.ErrorIs(t, err, ErrInvalidPage)
	_, err = Normalize(1, -10)
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Request{Page: 2, Limit: 2}, 5)
	require.Equal(t, 3, page.Pages)
	require.Equal(t, 5, page.Total)

	empty := NewPage[string](nil, Request{Page: 1, Limit: 20}, 0)
	require.NotNil(t, empty.Items)
	require.Zero(t, empty.Pages)

	lengths := Map(page, func(s string) int { return len(s) })
	require.Equal(t, []int{1, 1}, lengths.Items)
	require.Equal(t, page.Pages, lengths.Pages)
}
