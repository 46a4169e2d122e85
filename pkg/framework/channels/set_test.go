package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTypes(t *testing.T) {
	t.Run("OrderPreserved", func(t *testing.T) {
		s, err := FromTypes(Right, Left, Centre)
		require.NoError(t, err)
		assert.Equal(t, []Type{Right, Left, Centre}, s.Types())
		assert.False(t, s.Equal(LCR()), "order is part of identity")
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		_, err := FromTypes(Left, Right, Left)
		assert.Error(t, err)
	})

	t.Run("UnknownRejected", func(t *testing.T) {
		_, err := FromTypes(Left, Unknown)
		assert.Error(t, err)
	})

	t.Run("EmptyIsDisabled", func(t *testing.T) {
		s, err := FromTypes()
		require.NoError(t, err)
		assert.True(t, s.IsDisabled())
		assert.True(t, s.Equal(Disabled()))
	})
}

func TestDiscrete(t *testing.T) {
	s := Discrete(3)
	assert.Equal(t, 3, s.Size())
	assert.True(t, s.IsDiscrete())
	assert.Equal(t, "#1 #2 #3", s.Speakers())
	assert.Equal(t, "Discrete #3", s.String())

	assert.True(t, Discrete(0).IsDisabled())
	assert.True(t, Discrete(-1).IsDisabled())
	assert.False(t, Disabled().IsDiscrete())
}

func TestNamed(t *testing.T) {
	tests := []struct {
		n    int
		want Set
	}{
		{0, Disabled()},
		{1, Mono()},
		{2, Stereo()},
		{3, LCR()},
		{4, Quadraphonic()},
		{5, Create5point0()},
		{6, Create5point1()},
		{7, Create7point0()},
		{8, Create7point1()},
		{9, Disabled()},
	}

	for _, tt := range tests {
		got := Named(tt.n)
		assert.True(t, got.Equal(tt.want), "Named(%d) = %s", tt.n, got)
		if !got.IsDisabled() {
			assert.Equal(t, tt.n, got.Size())
		}
	}
}

func TestSetAccessors(t *testing.T) {
	s := Create5point1()

	assert.Equal(t, LFE, s.TypeOf(3))
	assert.Equal(t, Unknown, s.TypeOf(6))
	assert.Equal(t, Unknown, s.TypeOf(-1))
	assert.Equal(t, 4, s.IndexOf(LeftSurround))
	assert.Equal(t, -1, s.IndexOf(TopMiddle))
	assert.True(t, s.Contains(Centre))
	assert.Equal(t, "Lfe", s.Abbreviation(3))
	assert.Equal(t, "5.1 Surround", s.String())

	types := s.Types()
	types[0] = Right
	assert.Equal(t, Left, s.TypeOf(0), "Types must return a copy")
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "Disabled", Disabled().String())
	assert.Equal(t, "Stereo", Stereo().String())
	assert.Equal(t, "Unknown Layout (R L)", MustFromTypes(Right, Left).String())
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "Left Surround", LeftSurround.String())
	assert.Equal(t, "Ls", LeftSurround.Abbreviation())
	assert.Equal(t, "Discrete 2", (DiscreteChannel0 + 1).String())
	assert.Equal(t, "?", Type(40).Abbreviation())
	assert.Len(t, NamedTypes(), 19)
	for _, nt := range NamedTypes() {
		assert.True(t, nt.IsNamed())
		assert.False(t, nt.IsDiscrete())
	}
}
