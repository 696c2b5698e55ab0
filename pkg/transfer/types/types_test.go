package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_AbsentAndNullCollectionsAreEmpty(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`{"farms":null,"version":"1.0"}`))
	require.NoError(t, err)

	for _, key := range CollectionKeys {
		assert.NotNil(t, doc.Get(key), key)
		assert.Empty(t, doc.Get(key), key)
	}
}

func TestParseDocument_KeepsNumbersVerbatim(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`{"tasks":[{"hours":1.50,"big":12345678901234567890}]}`))
	require.NoError(t, err)

	task := doc.Get(KeyTasks)[0]
	assert.Equal(t, json.Number("1.50"), task["hours"])
	assert.Equal(t, json.Number("12345678901234567890"), task["big"])
}

func TestParseDocument_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"farms": [`,
		"top-level array":   `[{"id":1}]`,
		"top-level null":    `null`,
		"collection object": `{"tasks":{"a":1}}`,
		"entry not object":  `{"issues":[{"a":1}, 2]}`,
		"trailing data":     `{} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Equal(t, KindParse, KindOf(err))
		})
	}
}

func TestParseDocument_ErrorNamesEntry(t *testing.T) {
	_, err := ParseDocument(strings.NewReader(`{"issues":[{"a":1}, "x"]}`))
	require.Error(t, err)

	var te *Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KeyIssues, te.Collection)
	assert.Equal(t, 1, te.Index)
	assert.Contains(t, err.Error(), "issues[1]")
}

func TestInt64(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{json.Number("7"), 7, true},
		{json.Number("7.0"), 7, true},
		{json.Number("7.5"), 0, false},
		{" 12 ", 12, true},
		{"abc", 0, false},
		{float64(3), 3, true},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := Int64(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestErrorKinds(t *testing.T) {
	ref := ReferenceError(KeyFuelRecords, 0, 99)
	assert.True(t, errors.Is(ref, ErrFarmNotFound))
	assert.False(t, errors.Is(ref, ErrMalformed))
	assert.Equal(t, KindReference, KindOf(ref))

	cause := errors.New("disk full")
	st := StorageError("create farms", cause)
	assert.True(t, errors.Is(st, ErrStorage))
	assert.True(t, errors.Is(st, cause))

	assert.Equal(t, KindStorage, KindOf(errors.New("plain")))
}

func TestExportDocument_MarshalJSON_OrderAndEmptyArrays(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	doc := ExportDocument{
		Version:     Version,
		ExportDate:  at,
		Collections: map[string][]Entry{KeyTasks: {{"title": "weed"}}},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	s := string(b)
	assert.True(t, strings.HasPrefix(s, `{"version":"1.0","exportDate":"2024-05-01T08:30:00Z","farms":[]`), s)
	assert.Contains(t, s, `"tasks":[{"title":"weed"}]`)
	assert.True(t, strings.HasSuffix(s, `"livestock":[]}`), s)

	prev := -1
	for _, key := range CollectionKeys {
		i := strings.Index(s, `"`+key+`":`)
		require.GreaterOrEqual(t, i, 0, key)
		assert.Greater(t, i, prev, key)
		prev = i
	}
	assert.Len(t, CollectionKeys, 17)
}
