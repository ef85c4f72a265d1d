package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>",
	Short: "Score an image against the enrolled gallery",
	Long: `Recognize the face in a photo by scoring it against every enrolled
person. Scores run 0-100; the match threshold defaults to the configured
search threshold.

Examples:
  # Recognize with the default threshold
  facegate recognize visitor.jpg

  # Require a stricter score
  facegate recognize visitor.jpg --threshold 80

  # Machine-readable output
  facegate recognize visitor.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Float64("threshold", 0, "Minimum score to report a match (0 = configured default)")
	recognizeCmd.Flags().Int("limit", 10, "Maximum number of candidates to print")
	recognizeCmd.Flags().Bool("json", false, "Output as JSON")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()
	svc, _, closeRepo, err := newGalleryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	result, err := svc.Recognize(ctx, imageData, mustGetFloat64(cmd, "threshold"))
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Matches) == 0 {
		fmt.Println("Gallery is empty, nothing to match against")
		return nil
	}

	limit := mustGetInt(cmd, "limit")
	if limit > 0 && len(result.Matches) > limit {
		result.Matches = result.Matches[:limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNAME\tID")
	for _, m := range result.Matches {
		fmt.Fprintf(w, "%.1f\t%s\t%s\n", m.Score, m.Name, m.PersonID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := result.Best()
	if result.Matched {
		fmt.Printf("\nMatch: %s (score %.1f >= threshold %.1f)\n", best.Name, best.Score, result.Threshold)
	} else {
		fmt.Printf("\nNo match (best score %.1f < threshold %.1f)\n", best.Score, result.Threshold)
	}
	return nil
}
