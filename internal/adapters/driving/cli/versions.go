package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

var versionsProject string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List imported manuscript versions",
	Long: `Lists every imported version of the project's manuscript: what was
added, modified and deleted relative to the previous import.`,
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().StringVarP(&versionsProject, "project", "p", "default", "project identifier")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, _ []string) error {
	if versionService == nil {
		return errors.New("version service not configured")
	}

	versions, err := versionService.List(cmd.Context(), versionsProject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No versions imported yet.")
			return nil
		}
		return fmt.Errorf("listing versions: %w", err)
	}

	if len(versions) == 0 {
		cmd.Println("No versions imported yet.")
		return nil
	}

	for i := range versions {
		v := &versions[i]
		cmd.Printf("  v%d  %s  %d chapters, %d words",
			v.Number, v.CreatedAt.Format("2006-01-02 15:04:05"), len(v.ChapterHashes), v.WordCount)
		if changes := describeChanges(v); changes != "" {
			cmd.Printf("  (%s)", changes)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d versions\n", len(versions))
	return nil
}

func describeChanges(v *domain.DocumentVersion) string {
	if v.IsInitial() {
		return "initial import"
	}
	var parts []string
	if n := len(v.ModifiedChapters); n > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", n))
	}
	if n := len(v.AddedChapters); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(v.DeletedChapters); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", n))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}
