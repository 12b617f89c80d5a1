package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryDefaults(t *testing.T) {
	q := NewQuery(12)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.PerPage)
	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Equal(t, FilterAll, q.Filter)
	assert.Empty(t, q.Search)
}

func TestNewQueryClampsPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewQuery(0).PerPage)
	assert.Equal(t, DefaultPageSize, NewQuery(-3).PerPage)
}

func TestFilterIsReadParam(t *testing.T) {
	assert.Nil(t, FilterAll.IsReadParam())

	unread := FilterUnread.IsReadParam()
	require.NotNil(t, unread)
	assert.False(t, *unread)

	read := FilterRead.IsReadParam()
	require.NotNil(t, read)
	assert.True(t, *read)
}
