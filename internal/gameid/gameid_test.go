package gameid

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/randutil"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(quartz.NewMock(t), randutil.New(7)).Generate()
	b := NewGenerator(quartz.NewMock(t), randutil.New(7)).Generate()
	c := NewGenerator(quartz.NewMock(t), randutil.New(8)).Generate()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NoError(t, Validate(a))
}

func TestGenerateTimeSorted(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	g := NewGenerator(clock, randutil.New(1))

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, g.Generate())
		clock.Advance(time.Millisecond).MustWait(ctx)
	}

	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "IDs not sorted: %s >= %s", ids[i-1], ids[i])
	}
}

func TestUUIDVersionAndVariant(t *testing.T) {
	id := NewGenerator(quartz.NewMock(t), randutil.New(3)).uuid()
	assert.Equal(t, byte(0x70), id[6]&0xf0)
	assert.Equal(t, byte(0x80), id[8]&0xc0)
}

func TestEncode(t *testing.T) {
	var zero [16]byte
	assert.Equal(t, strings.Repeat("0", Length), encode(zero))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), encode(ones))

	var one [16]byte
	one[15] = 1
	assert.Equal(t, strings.Repeat("0", Length-1)+"1", encode(one))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid ID", id: "01h5n0et5q6mt3v7ms1234abcd"},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "first char too high", id: "81h5n0et5q6mt3v7ms1234abcd", wantErr: true},
		{name: "invalid character", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
		{name: "uppercase not allowed", id: "01H5N0ET5Q6MT3V7MS1234ABCD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, alphabet, 32)
	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character in alphabet: %c", char)
		seen[char] = true
	}
	for _, char := range "ilou" {
		assert.NotContains(t, alphabet, string(char))
	}
}
