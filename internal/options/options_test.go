package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, GotoLabel, o.CodeModel)
	assert.Equal(t, "yych", o.VarChar)
	assert.True(t, o.FillCheck)
	assert.Equal(t, 8, o.ComputedGotosThreshold)
}

func TestValidateRejectsEmptyPackage(t *testing.T) {
	o := NewOptions()
	o.Package = ""
	assert.Error(t, o.Validate())
}

func TestValidateRejectsBitmapsUnderRecFunc(t *testing.T) {
	o := NewOptions()
	o.CodeModel = RecFunc
	o.Bitmaps = true
	assert.Error(t, o.Validate())
}

func TestValidateRejectsNegativeComputedGotosThreshold(t *testing.T) {
	o := NewOptions()
	o.ComputedGotosThreshold = -1
	assert.Error(t, o.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	o := NewOptions()
	assert.NoError(t, o.Validate())
}

func TestCodeModelString(t *testing.T) {
	assert.Equal(t, "goto-label", GotoLabel.String())
	assert.Equal(t, "loop-switch", LoopSwitch.String())
	assert.Equal(t, "rec-func", RecFunc.String())
}
