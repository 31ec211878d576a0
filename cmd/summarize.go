package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nijaru/yt-summary/pipeline"
	"github.com/nijaru/yt-summary/utils"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [URL]",
	Short: "Summarize a video and write the result to a file",
	Example: `  yt-summary summarize "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  yt-summary summarize https://youtu.be/dQw4w9WgXcQ -o notes.txt

  # Prompt for the URL
  yt-summary summarize`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := urlFromArgs(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.pipeline.Summarize(cmd.Context(), url)
		if err != nil {
			return err
		}

		text := formatResult(result)

		outputFile, _ := cmd.Flags().GetString("output")
		if err := utils.WriteSummary(outputFile, text); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [URL]",
	Short: "Print the plain-text transcript of a video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := urlFromArgs(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.pipeline.Transcript(cmd.Context(), url)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringP("output", "o", "summary.txt", "Output file path")
}

// formatResult renders a summary under a short metadata header.
func formatResult(r *pipeline.Result) string {
	var b strings.Builder
	if r.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
	}
	fmt.Fprintf(&b, "Author: %s\n", r.Author)
	if r.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %s\n", time.Duration(r.Duration)*time.Second)
	}
	b.WriteString("\n")
	b.WriteString(r.Summary)
	return b.String()
}

// urlFromArgs returns the positional URL or prompts for one on stdin.
func urlFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Enter video URL: ")
	return readURL(cmd.InOrStdin())
}

func readURL(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", pkgerrors.Wrap(err, "failed to read URL")
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", pkgerrors.New("no URL provided")
	}
	return url, nil
}
