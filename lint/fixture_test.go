package lint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svlang/svkit/lint"
	"golang.org/x/tools/txtar"
)

// waiverFixture bundles a source file and its waiver file as one
// txtar archive, the same multi-file-fixture-in-a-single-string idiom
// golang.org/x/tools/txtar is built for, so a scenario test can carry
// both inputs side by side without two separate string literals
// drifting out of sync with each other.
const waiverFixture = `
-- mod.sv --
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
xxxxxxxxxxxxxxxxxxxxxxxxx
a	b
-- waivers.txt --
waive --rule=no-tabs --line=17 --location="mod.sv"
`

func archiveFile(t *testing.T, ar *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("fixture missing file %q", name)
	return nil
}

// TestRunFile_WaiverFixture_FromArchive replays the no-tabs/mod.sv
// scenario from TestWaiver_FiltersMatchingViolation, but reads both
// the source and the waiver file out of a single txtar-encoded
// fixture instead of two separate Go string literals.
func TestRunFile_WaiverFixture_FromArchive(t *testing.T) {
	ar := txtar.Parse([]byte(waiverFixture))
	src := archiveFile(t, ar, "mod.sv")
	waiverSrc := archiveFile(t, ar, "waivers.txt")

	reg := lint.NewRegistry()
	reg.Register("no-tabs", newTabRule, true)
	enabled := map[string]string{"no-tabs": ""}

	withoutWaiver, _ := lint.RunFile("mod.sv", src, enabled, reg, nil, fakeLexParse, nil)
	require.Len(t, withoutWaiver, 1)

	waivers, err := lint.ParseWaiverFile(strings.NewReader(string(waiverSrc)))
	require.NoError(t, err)

	withWaiver, _ := lint.RunFile("mod.sv", src, enabled, reg, waivers, fakeLexParse, nil)
	assert.Empty(t, withWaiver)
}
