package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a directory or file into the library",
	Long: `Import a directory or file. The path is resolved on the server's filesystem.

The request blocks until the import is finished and then reports what was
decided for every track.

Examples:
  music import /srv/incoming/album
  music import /srv/incoming --args "-c --set genre=Jazz"
  music import /srv/incoming --args "-s --duplicate-action keep"`,
	Args: cobra.ExactArgs(1),
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("args", "", "Import options, as on the command line (e.g. \"-c -s\")")
	importCmd.Flags().BoolP("verbose", "v", false, "List every track")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	importArgs, _ := cmd.Flags().GetString("args")
	verbose, _ := cmd.Flags().GetBool("verbose")

	client := NewClient(serverURL)
	resp, err := client.Import(args[0], importArgs)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp)
	}

	kinds := sortedKeys(resp.Summary)
	if len(kinds) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing imported")
		return nil
	}

	rows := make([][]string, 0, len(kinds))
	total := 0
	for _, k := range kinds {
		rows = append(rows, []string{k, strconv.Itoa(resp.Summary[k])})
		total += resp.Summary[k]
	}
	rows = append(rows, []string{"total", strconv.Itoa(total)})
	renderTable(out, []string{"DECISION", "TRACKS"}, rows, 1)

	_, _ = fmt.Fprintln(out)
	var detail [][]string
	for _, k := range kinds {
		byArtist := resp.Details[k]
		for _, artist := range sortedKeys(byArtist) {
			byAlbum := byArtist[artist]
			for _, album := range sortedKeys(byAlbum) {
				tracks := byAlbum[album]
				if !verbose {
					detail = append(detail, []string{k, truncate(artist, 30), truncate(album, 40), strconv.Itoa(len(tracks))})
					continue
				}
				for _, tr := range tracks {
					detail = append(detail, []string{k, truncate(artist, 30), truncate(album, 30), truncate(tr.Title, 40)})
				}
			}
		}
	}
	if verbose {
		renderTable(out, []string{"DECISION", "ARTIST", "ALBUM", "TITLE"}, detail)
	} else {
		renderTable(out, []string{"DECISION", "ARTIST", "ALBUM", "TRACKS"}, detail, 3)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
