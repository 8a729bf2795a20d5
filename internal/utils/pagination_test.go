package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		page, limit string
		want        PageParams
	}{
		{"", "", PageParams{Page: 1, Limit: 10}},
		{"3", "20", PageParams{Page: 3, Limit: 20}},
		{"0", "-5", PageParams{Page: 1, Limit: 10}},
		{"abc", "1.5", PageParams{Page: 1, Limit: 10}},
		{"2", "500", PageParams{Page: 2, Limit: MaxLimit}},
		{"9223372036854775807", "100", PageParams{Page: MaxPage, Limit: MaxLimit}},
		{"99999999999999999999", "", PageParams{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePageParams(tt.page, tt.limit), "page=%q limit=%q", tt.page, tt.limit)
	}
}

func TestOffsetStaysPositiveForHugePage(t *testing.T) {
	p := ParsePageParams("9223372036854775807", "100")
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.Offset())
	assert.Positive(t, p.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		want        Pagination
	}{
		{1, 10, 0, Pagination{CurrentPage: 1, TotalPages: 0, Limit: 10}},
		{1, 10, 10, Pagination{CurrentPage: 1, TotalPages: 1, Limit: 10}},
		{1, 10, 11, Pagination{CurrentPage: 1, TotalPages: 2, Limit: 10, HasNextPage: true}},
		{2, 10, 11, Pagination{CurrentPage: 2, TotalPages: 2, Limit: 10, HasPrevPage: true}},
		{5, 10, 11, Pagination{CurrentPage: 5, TotalPages: 2, Limit: 10, HasPrevPage: true}},
	}
	for _, tt := range tests {
		got := NewPagination(PageParams{Page: tt.page, Limit: tt.limit}, tt.total)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit("", 10, 50))
	assert.Equal(t, 10, ParseLimit("x", 10, 50))
	assert.Equal(t, 25, ParseLimit("25", 10, 50))
	assert.Equal(t, 50, ParseLimit("99", 10, 50))
}
