package marketplace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode_Decode(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{name: "zero", body: `{"error":0}`, ok: true},
		{name: "non-zero", body: `{"error":90309999}`, ok: false},
		{name: "relay string", body: `{"error":"error"}`, ok: false},
		{name: "null", body: `{"error":null}`, ok: false},
		{name: "absent", body: `{}`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp searchResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			assert.Equal(t, tt.ok, resp.Error.ok())
		})
	}
}
