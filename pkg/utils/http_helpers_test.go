package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Sort)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQuery_Full(t *testing.T) {
	values, err := url.ParseQuery("search=дрель&sort[created_at]=desc&filter[branch_id]=3&limit=25&page=2&withPagination=true")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "дрель", filter.Search)
	assert.Equal(t, map[string]string{"created_at": "desc"}, filter.Sort)
	assert.Equal(t, "3", filter.Filter["branch_id"])
	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 25, filter.Offset, "offset выводится из page при его отсутствии")
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQuery_LimitCapped(t *testing.T) {
	values := url.Values{"limit": []string{"100000"}}

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, MaxLimit, filter.Limit)
}

func TestParseFilterFromQuery_InvalidSortDirectionDropped(t *testing.T) {
	values, _ := url.ParseQuery("sort[name]=sideways")

	filter := ParseFilterFromQuery(values)

	assert.Empty(t, filter.Sort)
}

func TestParseFilterFromQuery_CommaListPassedThrough(t *testing.T) {
	values, _ := url.ParseQuery("filter[branch_id]=1,2")

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "1,2", filter.Filter["branch_id"])
}
