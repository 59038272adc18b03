package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		wantErr bool
	}{
		{"int", 3, 3, false},
		{"int64", int64(4), 4, false},
		{"float whole", 5.0, 5, false},
		{"float fraction", 5.5, 0, true},
		{"string", " 7 ", 7, false},
		{"string float", "2.0", 2, false},
		{"bytes", []byte("9"), 9, false},
		{"garbage", "two", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "AB", ToString(" AB "))
	assert.Equal(t, "12", ToString(12))
	assert.Equal(t, "x", ToString([]byte("x")))
}
