package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string form", input: `"10s"`, want: 10 * time.Second},
		{name: "compound string", input: `"1m30s"`, want: 90 * time.Second},
		{name: "integer nanoseconds", input: `5000000000`, want: 5 * time.Second},
		{name: "bad string", input: `"ten seconds"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}

func TestDuration_RoundTrip(t *testing.T) {
	in := Duration{Duration: 10 * time.Second}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Duration
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
