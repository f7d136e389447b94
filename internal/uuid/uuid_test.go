package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/charcraft/internal/uuid"
)

func TestRandomGenerator(t *testing.T) {
	gen := uuid.NewRandomGenerator()

	a, b := gen.New(), gen.New()

	assert.NotEqual(t, a, b)
	_, err := googleuuid.Parse(a)
	require.NoError(t, err)
}

func TestSequenceGenerator(t *testing.T) {
	gen := uuid.NewSequenceGenerator()

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", gen.New())
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", gen.New())
}
