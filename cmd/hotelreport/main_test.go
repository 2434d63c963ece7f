package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/hotelreport/internal/document"
)

func TestKindForUsesFileName(t *testing.T) {
	validateKind = ""

	kind, err := kindFor("reports/milan/competitors.json")
	require.NoError(t, err)
	assert.Equal(t, document.KindCompetitors, kind)

	kind, err = kindFor("dashboard.json")
	require.NoError(t, err)
	assert.Equal(t, document.KindDashboard, kind)

	kind, err = kindFor("export-2026-01.json")
	require.NoError(t, err)
	assert.Equal(t, document.KindReport, kind)
}

func TestKindForExplicitFlag(t *testing.T) {
	validateKind = "dashboard"
	defer func() { validateKind = "" }()

	kind, err := kindFor("data.json")
	require.NoError(t, err)
	assert.Equal(t, document.KindDashboard, kind)

	validateKind = "reviews"
	_, err = kindFor("data.json")
	assert.Error(t, err)
}

func TestSubcommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"render", "export", "serve", "summary", "validate", "init", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, renderCmd.Flags().Lookup("out"))
	assert.NotNil(t, exportCmd.Flags().Lookup("out"))
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
}
