package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParseStruct struct {
	Name string `yaml:"name"`
	On   bool   `yaml:"on"`
	Ints []int  `yaml:"ints"`
}

func TestParseJSONOrYAML(t *testing.T) {
	for _, params := range []struct {
		desc  string
		input string
	}{
		{"JSON", `{"name":"x","on":true,"ints":[1,2]}`},
		{"YAML", `---
name: x
on: true
ints:
  - 1
  - 2
`},
	} {
		t.Run(params.desc, func(t *testing.T) {
			var out testParseStruct
			require.NoError(t, Parse([]byte(params.input), &out))
			assert.Equal(t, "x", out.Name)
			assert.True(t, out.On)
			assert.Equal(t, []int{1, 2}, out.Ints)
		})
	}
}

func TestCanUseYAMLAnchorReferences(t *testing.T) {
	input := `---
first: &shared
  name: x
  ints: [3]
second: *shared
`
	var out struct {
		First  testParseStruct `yaml:"first"`
		Second testParseStruct `yaml:"second"`
	}
	require.NoError(t, Parse([]byte(input), &out))
	assert.Equal(t, out.First, out.Second)
	assert.Equal(t, []int{3}, out.Second.Ints)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	var out testParseStruct
	err := Parse([]byte("name: x\nnmae: y\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nmae")
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	var out testParseStruct
	assert.Error(t, Parse([]byte(""), &out))
}
