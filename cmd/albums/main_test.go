package main

import (
	"testing"

	"github.com/adampresley/photoalbums/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRoute(t *testing.T) {
	tests := []struct {
		name     string
		route    string
		wantPage string
		wantID   string
		wantPath string
	}{
		{name: "album fragment", route: "#/albums/a1", wantPage: navigation.PageAlbum, wantID: "a1", wantPath: "/albums/a1"},
		{name: "album path without hash", route: "/albums/b2", wantPage: navigation.PageAlbum, wantID: "b2", wantPath: "/albums/b2"},
		{name: "root fragment", route: "#/", wantPage: navigation.PageHome, wantPath: "/"},
		{name: "empty route", route: "", wantPage: navigation.PageHome, wantPath: "/"},
		{name: "unknown page", route: "#/nowhere", wantPage: navigation.PageNotFound, wantPath: "/nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := []navigation.Route{}
			paths := []string{}

			err := followRoute(tt.route, func(page navigation.Route, path string) error {
				calls = append(calls, page)
				paths = append(paths, path)
				return nil
			})

			require.NoError(t, err)
			require.Len(t, calls, 1, "each route renders exactly once")
			assert.Equal(t, tt.wantPage, calls[0].Page)
			assert.Equal(t, tt.wantID, calls[0].AlbumID)
			assert.Equal(t, tt.wantPath, paths[0])
		})
	}
}

func TestFollowRoute_ReturnsRenderError(t *testing.T) {
	err := followRoute("#/albums/a1", func(page navigation.Route, path string) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
}
