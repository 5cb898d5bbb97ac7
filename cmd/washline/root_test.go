package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/washline/washline/testing"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"serve", "worker", "migrate", "jobs", "audit"})
}

func TestServeSkipsInTestMode(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"serve"})
	root.SetOut(&bytes.Buffer{})
	require.NoError(t, root.Execute())
}

func TestJobsTriggerRequiresTask(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"jobs", "trigger"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.Error(t, root.Execute())
}
