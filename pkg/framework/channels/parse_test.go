package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Set
	}{
		{"", Disabled()},
		{"Disabled", Disabled()},
		{"stereo", Stereo()},
		{"Mono", Mono()},
		{"5.1", Create5point1()},
		{"5.1 Surround", Create5point1()},
		{"7.1 SDDS", Create7point1SDDS()},
		{"quadraphonic", Quadraphonic()},
		{"discrete:3", Discrete(3)},
		{"L R C", LCR()},
		{"ls rs", MustFromTypes(LeftSurround, RightSurround)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"discrete:0", "discrete:x", "L Q", "L L"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}
