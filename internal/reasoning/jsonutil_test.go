package reasoning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "fenced json block",
			input: "Here you go:\n```json\n{\"a\": 1}\n```\nLet me know.",
			want:  `{"a": 1}`,
		},
		{
			name:  "fence without language tag",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding prose",
			input: `Sure! {"a": 1} Hope that helps.`,
			want:  `{"a": 1}`,
		},
		{
			name:  "no object at all",
			input: "I cannot answer that.",
			want:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.input))
		})
	}
}

func TestExtractJSON_CleansModelArtifacts(t *testing.T) {
	input := `{
		"url": "http://example.com", // keep the URL intact
		"items": [1, 2, 3,],
	}`

	var parsed struct {
		URL   string `json:"url"`
		Items []int  `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(ExtractJSON(input)), &parsed))
	assert.Equal(t, "http://example.com", parsed.URL)
	assert.Equal(t, []int{1, 2, 3}, parsed.Items)
}
