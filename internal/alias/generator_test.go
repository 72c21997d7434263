package alias_test

import (
	"strings"
	"testing"

	"github.com/serroba/shortlink/internal/alias"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	gen, err := alias.NewGenerator(8)
	require.NoError(t, err)

	t.Run("appends a random part of the configured length", func(t *testing.T) {
		id := gen.Next("promo-")

		assert.True(t, strings.HasPrefix(string(id), "promo-"))
		assert.Len(t, string(id), len("promo-")+8)
		assert.NoError(t, alias.ValidatePrefix(string(id)), "generated ids stay URL-safe")
	})

	t.Run("ids differ", func(t *testing.T) {
		seen := make(map[alias.ShortID]struct{})

		for range 100 {
			seen[gen.Next("")] = struct{}{}
		}

		assert.Len(t, seen, 100)
	})

	t.Run("rejects invalid lengths", func(t *testing.T) {
		_, err := alias.NewGenerator(0)
		assert.Error(t, err)
	})
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   error
	}{
		{prefix: ""},
		{prefix: "promo-"},
		{prefix: "Summer_2026"},
		{prefix: strings.Repeat("a", alias.MaxPrefixLength)},
		{prefix: strings.Repeat("a", alias.MaxPrefixLength+1), want: alias.ErrPrefixTooLong},
		{prefix: "with/slash", want: alias.ErrInvalidPrefix},
		{prefix: "ünï", want: alias.ErrInvalidPrefix},
		{prefix: "a?b", want: alias.ErrInvalidPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			err := alias.ValidatePrefix(tt.prefix)
			if tt.want == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
