package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "dome-tents", Make("Dome Tents"))
	assert.Equal(t, "tents-tarps", Make("  Tents / Tarps!! "))
	assert.Equal(t, "캠핑-의자", Make("캠핑 의자"))
	assert.Equal(t, "", Make("---"))
}
