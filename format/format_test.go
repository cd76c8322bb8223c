package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svlang/svkit/format"
	"github.com/svlang/svkit/token"
)

func TestNoopFormatter_Render(t *testing.T) {
	src := []byte("module m")
	toks := []format.PreFormatToken{
		{Token: token.NewToken(token.KwModule, token.ByteRange{Start: 0, End: 6}, src)},
		{Token: token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 7, End: 8}, src), SpacesBefore: 1},
	}
	var f format.NoopFormatter
	out, err := f.Render(toks, 100)
	assert.NoError(t, err)
	assert.Equal(t, "module m", out)
}

func TestNoopFormatter_Align(t *testing.T) {
	var f format.NoopFormatter
	cols := f.Align(make([]format.PreFormatToken, 3))
	assert.Equal(t, []int{0, 0, 0}, cols)
}
