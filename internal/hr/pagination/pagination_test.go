package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsDefaults(t *testing.T) {
	p := ParseParams(url.Values{}, 10, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestParseParamsMalformed(t *testing.T) {
	q := url.Values{"page": {"abc"}, "page_size": {"-3"}}
	p := ParseParams(q, 10, 100)
	assert.Equal(t, 1, p.Page, "malformed page falls back to 1")
	assert.Equal(t, 10, p.PageSize, "malformed size falls back to the default")
}

func TestParseParamsClampsToMax(t *testing.T) {
	q := url.Values{"page_size": {"5000"}}
	p := ParseParams(q, 10, 100)
	assert.Equal(t, 100, p.PageSize)
}

func TestParseParamsOffset(t *testing.T) {
	q := url.Values{"page": {"3"}, "page_size": {"20"}}
	p := ParseParams(q, 10, 100)
	assert.Equal(t, 40, p.Offset())
}

func TestNewEnvelope(t *testing.T) {
	u, err := url.Parse("http://localhost/api/hr/master/company/?page=2&name=acme")
	require.NoError(t, err)

	results := []map[string]any{{"id": 1}}
	page := New(results, 23, Params{Page: 2, PageSize: 10}, u)

	assert.Equal(t, int64(23), page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)

	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Next, "name=acme", "links keep the other query parameters")

	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")
}

func TestNewEnvelopeEdges(t *testing.T) {
	u, err := url.Parse("http://localhost/api/hr/master/company/")
	require.NoError(t, err)

	first := New(nil, 23, Params{Page: 1, PageSize: 10}, u)
	assert.Nil(t, first.Previous, "first page has no previous link")
	assert.NotNil(t, first.Next)

	last := New(nil, 23, Params{Page: 3, PageSize: 10}, u)
	assert.Nil(t, last.Next, "last page has no next link")
	assert.NotNil(t, last.Previous)
}

func TestNewEnvelopeEmptyResults(t *testing.T) {
	page := New(nil, 0, Params{Page: 1, PageSize: 10}, nil)
	require.NotNil(t, page.Results, "results must serialize as [] not null")
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.TotalPages)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}
