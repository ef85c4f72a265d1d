package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/gallery"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <image>",
	Short: "Enroll a person into the gallery",
	Long: `Enroll a person from a photo. The image is sent to the face-detection
service, the facial landmarks are extracted and stored together with the
photo under a new person id.

The photo must contain exactly one face.

With --dir, every image in the directory is enrolled instead; the person
name defaults to the file name without extension.

Examples:
  # Enroll one person
  facegate enroll --name "Jan Novak" jan.jpg

  # Enroll a directory of reference photos
  facegate enroll --dir ./staff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("name", "", "Person name (defaults to the file name without extension)")
	enrollCmd.Flags().String("dir", "", "Enroll every image in this directory")
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return true
	}
	return false
}

func nameFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func enrollOne(ctx context.Context, svc *gallery.Service, name, path string) error {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	person, err := svc.Enroll(ctx, name, imageData)
	if err != nil {
		return err
	}
	fmt.Printf("Enrolled %s as %s\n", person.Name, person.ID)
	return nil
}

func runEnrollDir(ctx context.Context, svc *gallery.Service, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	bar := progressbar.NewOptions(len(images),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var enrolled, failed int
	for _, path := range images {
		imageData, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("\n%s: %v\n", path, err)
			failed++
			_ = bar.Add(1)
			continue
		}
		if _, err := svc.Enroll(ctx, nameFromFile(path), imageData); err != nil {
			fmt.Printf("\n%s: %v\n", path, err)
			failed++
			_ = bar.Add(1)
			continue
		}
		enrolled++
		_ = bar.Add(1)
	}

	fmt.Printf("\nEnrolled %d people", enrolled)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

func runEnroll(cmd *cobra.Command, args []string) error {
	dir := mustGetString(cmd, "dir")
	if dir == "" && len(args) == 0 {
		return errors.New("provide an image file or --dir")
	}
	if dir != "" && len(args) > 0 {
		return errors.New("--dir cannot be combined with an image argument")
	}

	cfg := config.Load()
	ctx := context.Background()
	svc, _, closeRepo, err := newGalleryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if dir != "" {
		return runEnrollDir(ctx, svc, dir)
	}

	name := mustGetString(cmd, "name")
	if name == "" {
		name = nameFromFile(args[0])
	}
	return enrollOne(ctx, svc, name, args[0])
}
