package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Changelog

All notable changes to this project will be documented in this file.

## [Unreleased]

### Added
- Pending feature

## [1.1.0] - 2024-06-01

### Fixed
- Something

## [1.0.0] - 2024-05-01

### Added
- First release

[Unreleased]: https://example.com/compare/v1.1.0...HEAD
[1.1.0]: https://example.com/compare/v1.0.0...v1.1.0
[1.0.0]: https://example.com/releases/tag/v1.0.0
`

func TestParse(t *testing.T) {
	cl, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, cl.Releases, 3)

	assert.Equal(t, Unreleased, cl.Releases[0].Version)
	assert.Equal(t, "1.1.0", cl.Releases[1].Version)
	assert.Equal(t, "2024-06-01", cl.Releases[1].Date)
	assert.Equal(t, "### Fixed\n- Something", cl.Releases[1].Notes)
	assert.NotContains(t, cl.Releases[2].Notes, "https://")
	assert.Equal(t, "https://example.com/releases/tag/v1.0.0", cl.Links["1.0.0"])
}

func TestFindAndLatest(t *testing.T) {
	cl, err := Parse([]byte(sample))
	require.NoError(t, err)

	r, ok := cl.Find("v1.0.0")
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", r.Date)

	_, ok = cl.Find("9.9.9")
	assert.False(t, ok)

	latest, ok := cl.Latest()
	require.True(t, ok)
	assert.Equal(t, "1.1.0", latest.Version)

	empty, _ := Parse([]byte("# Changelog\n\n## [Unreleased]\n"))
	_, ok = empty.Latest()
	assert.False(t, ok)
}

func TestSplitHeading(t *testing.T) {
	for in, want := range map[string][2]string{
		"[1.2.0] - 2024-05-01": {"1.2.0", "2024-05-01"},
		"1.2.0 - 2024-05-01":   {"1.2.0", "2024-05-01"},
		"[Unreleased]":         {"Unreleased", ""},
		"1.2.0":                {"1.2.0", ""},
	} {
		v, d := splitHeading(in)
		assert.Equal(t, want, [2]string{v, d}, in)
	}
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate([]byte(sample)))

	bad := `## [1.0] - May 2024

### Stuff
- x
`
	problems := Validate([]byte(bad))
	var msgs []string
	for _, p := range problems {
		msgs = append(msgs, p.Error())
	}
	assert.Contains(t, msgs, `line 3: invalid change type "Stuff"`)
	assert.Contains(t, msgs, "missing title")
	assert.Contains(t, msgs, `version "1.0" is not X.Y.Z`)
	assert.Contains(t, msgs, `version "1.0" has no YYYY-MM-DD date`)
	assert.Contains(t, msgs, "missing link definition for [1.0]")
	assert.Contains(t, msgs, "missing [Unreleased] section")
}
