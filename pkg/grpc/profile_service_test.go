package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestProfileRequestRoundTrip(t *testing.T) {
	in := ProfileRequest{PlayerID: 1628973, Season: "2023-24", SeasonType: "Playoffs", OnDemand: true}

	out, err := ParseProfileRequest(in.ToStruct())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseProfileRequest(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]any
		want    ProfileRequest
		wantErr bool
	}{
		{
			name:   "Only the player",
			fields: map[string]any{"player_id": 201939},
			want:   ProfileRequest{PlayerID: 201939},
		},
		{
			name:    "Missing player",
			fields:  map[string]any{"season": "2023-24"},
			wantErr: true,
		},
		{
			name:    "Negative player",
			fields:  map[string]any{"player_id": -3},
			wantErr: true,
		},
		{
			name:    "Fractional player",
			fields:  map[string]any{"player_id": 2.5},
			wantErr: true,
		},
		{
			name:    "Player as string",
			fields:  map[string]any{"player_id": "201939"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)

			got, err := ParseProfileRequest(s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNilRequest(t *testing.T) {
	_, err := ParseProfileRequest(nil)
	assert.ErrorIs(t, err, ErrMissingPlayerID)
}
