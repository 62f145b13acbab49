package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-worktime-tracker/internal/data/store"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage project visibility and display",
	Long: `projects manages per-project presentation settings. Hiding a project
removes it from default reports without deleting any of its sessions;
rename and logo set display-only overrides that never affect aggregation.`,
}

var projectsHideCmd = &cobra.Command{
	Use:   "hide <project>",
	Short: "Hide a project from default reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.IgnoreProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Project %q hidden (sessions are kept)\n", args[0])
			return nil
		})
	},
}

var projectsUnhideCmd = &cobra.Command{
	Use:   "unhide <project>",
	Short: "Show a hidden project again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.UnignoreProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Project %q visible again\n", args[0])
			return nil
		})
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:   "rename <project> <display-name>",
	Short: "Set a display name for a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			logoURL := ""
			if d, err := db.GetProjectDisplay(args[0]); err == nil && d != nil {
				logoURL = d.LogoURL
			}
			if err := db.SetProjectDisplay(args[0], args[1], logoURL); err != nil {
				return err
			}
			fmt.Printf("Project %q displays as %q\n", args[0], args[1])
			return nil
		})
	},
}

var projectsLogoCmd = &cobra.Command{
	Use:   "logo <project> <logo-url>",
	Short: "Set a logo URL for a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			customName := ""
			if d, err := db.GetProjectDisplay(args[0]); err == nil && d != nil {
				customName = d.CustomName
			}
			if err := db.SetProjectDisplay(args[0], customName, args[1]); err != nil {
				return err
			}
			fmt.Printf("Project %q logo set\n", args[0])
			return nil
		})
	},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hidden projects and display overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			ignored, err := db.ListIgnoredProjects()
			if err != nil {
				return err
			}
			displays, err := db.ListProjectDisplays()
			if err != nil {
				return err
			}

			if len(ignored) == 0 && len(displays) == 0 {
				fmt.Println("No project settings configured")
				return nil
			}
			for _, p := range ignored {
				fmt.Printf("%-30s hidden since %s\n", p.Project, p.IgnoredAt.Format("2006-01-02"))
			}
			for _, d := range displays {
				line := fmt.Sprintf("%-30s", d.Project)
				if d.CustomName != "" {
					line += fmt.Sprintf(" name=%q", d.CustomName)
				}
				if d.LogoURL != "" {
					line += fmt.Sprintf(" logo=%s", d.LogoURL)
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}

func init() {
	projectsCmd.AddCommand(projectsHideCmd, projectsUnhideCmd,
		projectsRenameCmd, projectsLogoCmd, projectsListCmd)
	rootCmd.AddCommand(projectsCmd)
}
