package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <item-id>",
	Short: "Download an item's audio file",
	Long: `Download an item's audio file.

Without -o the file is saved in the current directory under its library name.
Use -o - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runFileCmd,
}

var artCmd = &cobra.Command{
	Use:   "art <id>",
	Short: "Download cover art for an item or album",
	Long: `Download cover art.

Item art is the picture embedded in the audio file. With --album the ID is an
album ID and the album's cover image is fetched. --size asks the server for a
thumbnail no larger than size x size.`,
	Args: cobra.ExactArgs(1),
	RunE: runArtCmd,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.Flags().StringP("output", "o", "", "Output path (- for stdout)")

	rootCmd.AddCommand(artCmd)
	artCmd.Flags().StringP("output", "o", "", "Output path (- for stdout)")
	artCmd.Flags().Int("size", 0, "Thumbnail size in pixels")
	artCmd.Flags().Bool("album", false, "Treat the ID as an album ID")
}

// saveDownload runs fetch into output. An empty output uses the server's
// filename (or fallback) in the current directory. Partial files are removed
// on failure.
func saveDownload(cmd *cobra.Command, output, fallback string, fetch func(io.Writer) (string, error)) error {
	if output == "-" {
		_, err := fetch(cmd.OutOrStdout())
		return err
	}

	tmp, err := os.CreateTemp(".", ".music-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	name, err := fetch(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if output == "" {
		output = filepath.Base(name)
		if name == "" || output == "." || output == string(filepath.Separator) {
			output = fallback
		}
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", output)
	return nil
}

func runFileCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	client := NewClient(serverURL)
	return saveDownload(cmd, output, fmt.Sprintf("item-%d", id), func(w io.Writer) (string, error) {
		return client.ItemFile(id, w)
	})
}

func runArtCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	size, _ := cmd.Flags().GetInt("size")
	album, _ := cmd.Flags().GetBool("album")

	client := NewClient(serverURL)
	return saveDownload(cmd, output, fmt.Sprintf("art-%d", id), func(w io.Writer) (string, error) {
		if album {
			return client.AlbumArt(id, size, w)
		}
		return client.ItemArt(id, size, w)
	})
}
