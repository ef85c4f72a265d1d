package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/faceid"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage the enrolled gallery",
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled people",
	RunE:  runPeopleList,
}

var peopleShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show one enrolled person",
	Long: `Show an enrolled person by id. When no person has the given id, the
argument is treated as a name; diacritics and case are ignored, so
"jan-novak" finds "Jan Novák".`,
	Args: cobra.ExactArgs(1),
	RunE: runPeopleShow,
}

var peopleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a person from the gallery",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeopleDelete,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	peopleCmd.AddCommand(peopleListCmd)
	peopleCmd.AddCommand(peopleShowCmd)
	peopleCmd.AddCommand(peopleDeleteCmd)

	peopleShowCmd.Flags().Bool("json", false, "Output as JSON")
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()
	svc, _, closeRepo, err := newGalleryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	people, err := svc.ListPeople(ctx)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		fmt.Println("No people enrolled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLANDMARKS\tENROLLED")
	for i := range people {
		p := &people[i]
		landmarks := 0
		if rec, err := faceid.Parse(p.Features); err == nil {
			landmarks = len(rec.Landmarks)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			p.ID, p.Name, landmarks, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runPeopleShow(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()
	svc, _, closeRepo, err := newGalleryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	person, err := svc.GetPerson(ctx, args[0])
	if err != nil {
		return err
	}
	if person == nil {
		matches, err := svc.FindByName(ctx, args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no person with id or name %q", args[0])
		}
		if len(matches) > 1 {
			fmt.Printf("Found %d people named %q, showing the first\n", len(matches), args[0])
		}
		person = &matches[0]
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(person)
	}

	fmt.Printf("ID:       %s\n", person.ID)
	fmt.Printf("Name:     %s\n", person.Name)
	fmt.Printf("Enrolled: %s\n", person.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Photo:    %d bytes\n", len(person.Image))

	rec, err := faceid.Parse(person.Features)
	if err != nil {
		fmt.Printf("Features: unreadable (%v)\n", err)
		return nil
	}
	fmt.Printf("Head pose: x=%.1f y=%.1f z=%.1f\n",
		rec.HeadEulerAngleX, rec.HeadEulerAngleY, rec.HeadEulerAngleZ)
	fmt.Printf("Landmarks (%d):\n", len(rec.Landmarks))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, lm := range rec.Landmarks {
		fmt.Fprintf(w, "  %s\t%.1f\t%.1f\n", lm.Type, lm.X, lm.Y)
	}
	return w.Flush()
}

func runPeopleDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()
	svc, _, closeRepo, err := newGalleryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
