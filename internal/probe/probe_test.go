package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDCode(t *testing.T) {
	tests := []struct {
		name     string
		code     IDCode
		designer JEP106
		part     uint16
		version  uint8
	}{
		{"cortex-m7 sw-dp", 0x5ba02477, JEP106ARM, 0xba02, 5},
		{"cortex-m0+ sw-dp", 0x0bc11477, JEP106ARM, 0xbc11, 0},
		{"sifive e31", 0x20000913, JEP106SiFive, 0x0000, 2},
		{"esp32-c3", 0x00005c25, JEP106Espressif, 0x0005, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.code.Valid())
			assert.Equal(t, tt.designer, tt.code.Designer())
			assert.Equal(t, tt.part, tt.code.PartNumber())
			assert.Equal(t, tt.version, tt.code.Version())
		})
	}

	assert.False(t, IDCode(0x5ba02476).Valid())
	assert.Equal(t, "0x5ba02477", IDCode(0x5ba02477).String())
}

func TestJEP106(t *testing.T) {
	assert.Equal(t, "STMicroelectronics", JEP106STM.Manufacturer())
	assert.Equal(t, "0/0x20 (STMicroelectronics)", JEP106STM.String())

	unknown := JEP106{Continuation: 1, ID: 0x7e}
	assert.Empty(t, unknown.Manufacturer())
	assert.Equal(t, "1/0x7e", unknown.String())
}

func TestDebugModuleVersion(t *testing.T) {
	assert.Equal(t, uint8(2), DebugModuleVersion(0x00400c82))
	assert.Equal(t, uint8(3), DebugModuleVersion(0x00400ca3))
	assert.Equal(t, uint8(0), DebugModuleVersion(0))
}
