package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/detector"
	"github.com/facegate/facegate/internal/faceid"
	"github.com/facegate/facegate/internal/gallery"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Print the raw similarity score between two faces",
	Long: `Compare two faces and print the landmark-distance similarity score
(0-100). Each argument is either an image file (must contain exactly one
face) or the id of an enrolled person.

Comparing two image files needs no database.

Examples:
  # Two photos
  facegate compare jan1.jpg jan2.jpg

  # A photo against an enrolled person
  facegate compare visitor.jpg 6dbe2a4e-...`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func extractFromFile(ctx context.Context, client *detector.Client, path string) (*faceid.FeatureRecord, error) {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	faces, err := client.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detecting faces in %s: %w", path, err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no face found in %s", path)
	}
	if len(faces) > 1 {
		return nil, fmt.Errorf("%s contains %d faces, expected one", path, len(faces))
	}
	return faceid.Extract(&faces[0]), nil
}

func extractFromGallery(ctx context.Context, svc *gallery.Service, id string) (*faceid.FeatureRecord, error) {
	person, err := svc.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, fmt.Errorf("no file or enrolled person %q", id)
	}
	rec, err := faceid.Parse(person.Features)
	if err != nil {
		return nil, fmt.Errorf("stored features for %s: %w", id, err)
	}
	return rec, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	client := detector.NewClient(cfg.Detector.URL)
	ctx := context.Background()

	// Only open the database when an argument is not an image file.
	var svc *gallery.Service
	if !isFile(args[0]) || !isFile(args[1]) {
		var closeRepo func()
		var err error
		svc, _, closeRepo, err = newGalleryService(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepo()
	}

	records := make([]*faceid.FeatureRecord, 2)
	for i, arg := range args {
		var err error
		if isFile(arg) {
			records[i], err = extractFromFile(ctx, client, arg)
		} else {
			records[i], err = extractFromGallery(ctx, svc, arg)
		}
		if err != nil {
			return err
		}
	}

	score, ok := faceid.Compare(records[0], records[1])
	if !ok {
		return fmt.Errorf("no landmark types in common between %s and %s", args[0], args[1])
	}
	fmt.Printf("%.2f\n", score)
	return nil
}
