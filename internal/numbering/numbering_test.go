package numbering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		last    string
		want    string
		wantErr error
	}{
		{name: "first account", last: "", want: "CPT-10000"},
		{name: "increment", last: "CPT-10005", want: "CPT-10006"},
		{name: "last valid", last: "CPT-99998", want: "CPT-99999"},
		{name: "exhausted", last: "CPT-99999", wantErr: ErrExhausted},
		{name: "malformed", last: "ACC-1", wantErr: ErrMalformed},
		{name: "no digits", last: "CPT-", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.last)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeSource struct {
	last string
	err  error
}

func (f *fakeSource) LastNumber(context.Context) (string, error) {
	return f.last, f.err
}

func TestStoreSequence(t *testing.T) {
	source := &fakeSource{}
	seq := NewStoreSequence(source)

	got, err := seq.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CPT-10000", got)

	source.last = "CPT-10041"
	got, err = seq.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CPT-10042", got)

	source.err = errors.New("connection reset")
	_, err = seq.Next(context.Background())
	assert.Error(t, err)
}

func TestCounterSeeding(t *testing.T) {
	seed, err := SeedValue("")
	require.NoError(t, err)
	got, err := FromCounter(seed + 1)
	require.NoError(t, err)
	assert.Equal(t, "CPT-10000", got)

	seed, err = SeedValue("CPT-10120")
	require.NoError(t, err)
	got, err = FromCounter(seed + 1)
	require.NoError(t, err)
	assert.Equal(t, "CPT-10121", got)

	_, err = FromCounter(Max + 1)
	assert.ErrorIs(t, err, ErrExhausted)
}
