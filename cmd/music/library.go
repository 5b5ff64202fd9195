package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items [query...]",
	Short: "List library items",
	Long: `List items matching a query. Terms are ANDed.

Examples:
  music items                       # Everything
  music items beatles               # Substring on artist, album, title, genre
  music items artist:~beatels       # Fuzzy match
  music items year:1965..1969       # Numeric range`,
	RunE: runItemsCmd,
}

var albumsCmd = &cobra.Command{
	Use:   "albums [query...]",
	Short: "List library albums",
	RunE:  runAlbumsCmd,
}

var albumCmd = &cobra.Command{
	Use:   "album <id>",
	Short: "Show an album and its tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbumCmd,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(albumCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID: %s", s)
	}
	return id, nil
}

func runItemsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	raw, err := client.Items(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, raw)
	}
	if len(raw) == 0 {
		_, _ = fmt.Fprintln(out, "No items")
		return nil
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		var it Item
		if err := json.Unmarshal(r, &it); err != nil {
			return fmt.Errorf("decode item: %w", err)
		}
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			truncate(it.Artist, 30),
			truncate(it.Album, 30),
			trackNumber(it.Track),
			truncate(it.Title, 40),
			formatSize(it.Size),
		})
	}
	renderTable(out, []string{"ID", "ARTIST", "ALBUM", "#", "TITLE", "SIZE"}, rows, 0, 3, 5)
	return nil
}

func trackNumber(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func runAlbumsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	raw, err := client.Albums(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("list albums: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, raw)
	}
	if len(raw) == 0 {
		_, _ = fmt.Fprintln(out, "No albums")
		return nil
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		var a Album
		if err := json.Unmarshal(r, &a); err != nil {
			return fmt.Errorf("decode album: %w", err)
		}
		art := ""
		if a.ArtPath != nil {
			art = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			truncate(a.AlbumArtist, 30),
			truncate(a.Album, 40),
			yearString(a.Year),
			art,
		})
	}
	renderTable(out, []string{"ID", "ALBUM ARTIST", "ALBUM", "YEAR", "ART"}, rows, 0)
	return nil
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func runAlbumCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	raw, err := client.Album(id)
	if err != nil {
		return fmt.Errorf("get album: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, raw)
	}

	var a Album
	if err := json.Unmarshal(raw, &a); err != nil {
		return fmt.Errorf("decode album: %w", err)
	}
	_, _ = fmt.Fprintf(out, "%s - %s", a.AlbumArtist, a.Album)
	if a.Year > 0 {
		_, _ = fmt.Fprintf(out, " (%d)", a.Year)
	}
	_, _ = fmt.Fprintln(out)
	if a.ArtPath != nil {
		_, _ = fmt.Fprintf(out, "Art: %s\n", *a.ArtPath)
	}
	_, _ = fmt.Fprintln(out)

	rows := make([][]string, 0, len(a.Items))
	for _, it := range a.Items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			trackNumber(it.Track),
			truncate(it.Title, 50),
			it.Format,
		})
	}
	renderTable(out, []string{"ID", "#", "TITLE", "FORMAT"}, rows, 0, 1)
	return nil
}
