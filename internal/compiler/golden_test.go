package compiler_test

import (
	"os"
	"testing"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type goldenCase struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Disasm []string `yaml:"disasm"`
}

type goldenFixture struct {
	Cases []goldenCase `yaml:"cases"`
}

// TestGoldenDisassembly compiles each fixture's source and checks main's
// disassembly line-for-line, the way hive/builder's suite tests diff a
// built artifact against a fixture rather than hand-asserting every field.
func TestGoldenDisassembly(t *testing.T) {
	raw, err := os.ReadFile("testdata/golden.yaml")
	require.NoError(t, err)

	var fixture goldenFixture
	require.NoError(t, yaml.Unmarshal(raw, &fixture))
	require.NotEmpty(t, fixture.Cases)

	for _, tc := range fixture.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			m, perr := parser.Parse(0, tc.Source)
			require.Nil(t, perr)

			c := compiler.New(0, compiler.DefaultOptions())
			cerr := c.CompileModule(m)
			require.Nil(t, cerr)

			built := c.Build()
			require.NotEmpty(t, built.Prototypes)

			got := make([]string, 0, len(built.Prototypes[0].Code))
			for _, op := range built.Prototypes[0].Code {
				got = append(got, op.Disassemble())
			}
			require.Equal(t, tc.Disasm, got)
		})
	}
}
