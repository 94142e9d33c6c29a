package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/adampresley/photoalbums/pkg/services"
)

func printAlbums(w io.Writer, albums []models.Album) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tIMAGES\tTHUMBNAIL")

	for _, album := range albums {
		thumbnail := album.ThumbnailURL

		if thumbnail == "" {
			thumbnail = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", album.ID, album.Name, album.ImageCount, thumbnail)
	}

	_ = tw.Flush()
}

func printAlbum(w io.Writer, album models.Album) {
	fmt.Fprintf(w, "%s (%s)\n", album.Name, album.ID)

	if album.Description != "" {
		fmt.Fprintln(w, album.Description)
	}

	fmt.Fprintf(w, "%d images\n\n", album.ImageCount)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tURL")

	for _, image := range album.Images {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", image.ID, image.Name, image.URL)
	}

	_ = tw.Flush()
}

func printUploadResults(w io.Writer, results []services.UploadResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tIMAGE ID\tDETAIL")

	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(tw, "%s\tfailed\t-\t%s\n", result.File, result.Err.Error())
			continue
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", result.File, result.Image.Status, result.Image.ID, result.Image.URL)
	}

	_ = tw.Flush()
}

func printQuota(w io.Writer, quota models.StorageQuota) {
	fmt.Fprintf(w, "\nstorage: %d MB of %d MB used, %d albums\n", quota.UsedStorage, quota.TotalStorage, quota.AlbumCount)
}
