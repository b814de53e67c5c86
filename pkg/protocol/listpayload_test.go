package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListPayload(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{
			name: "native array",
			data: `["s3://a","s3://b"]`,
			want: []string{"s3://a", "s3://b"},
		},
		{
			name: "uris envelope",
			data: `{"uris":["s3://a"]}`,
			want: []string{"s3://a"},
		},
		{
			name: "flows envelope",
			data: `{"flows":["s3://bucket/flow.json"]}`,
			want: []string{"s3://bucket/flow.json"},
		},
		{
			name: "reports envelope",
			data: `{"reports":["s3://bucket/report.json"]}`,
			want: []string{"s3://bucket/report.json"},
		},
		{
			name: "string-encoded envelope",
			data: `"{\"uris\":[\"s3://a\",\"s3://b\"]}"`,
			want: []string{"s3://a", "s3://b"},
		},
		{
			name: "string-encoded array",
			data: `"[\"s3://a\"]"`,
			want: []string{"s3://a"},
		},
		{
			name: "object without known keys",
			data: `{"items":["s3://a"]}`,
			want: []string{},
		},
		{
			name: "envelope with non-array value",
			data: `{"uris":"s3://a"}`,
			want: []string{},
		},
		{
			name: "scalar payload",
			data: `42`,
			want: []string{},
		},
		{
			name: "empty payload",
			data: ``,
			want: []string{},
		},
		{
			name:    "string that is not JSON",
			data:    `"not json at all"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeListPayload(json.RawMessage(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
