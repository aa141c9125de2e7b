package main

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/strata/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	for _, want := range []string{"hole", "section", "interval", "graph", "edge"} {
		assert.Contains(t, out.String(), want)
	}
}
