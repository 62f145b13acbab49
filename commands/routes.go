package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-worktime-tracker/internal/data/store"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Manage URL-to-project routes",
	Long: `routes manages the lookup table that maps browsing hosts to projects.
A browsing report is attributed to a project when its host contains one of
the stored URL patterns as a substring; reports matching no pattern are
dropped.`,
}

var routesAddCmd = &cobra.Command{
	Use:   "add <url-pattern> <project>",
	Short: "Add or update a route",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.UpsertUrlRoute(args[1], args[0]); err != nil {
				return err
			}
			fmt.Printf("Route %q -> %q saved\n", args[0], args[1])
			return nil
		})
	},
}

var routesRemoveCmd = &cobra.Command{
	Use:   "remove <url-pattern>",
	Short: "Remove a route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.RemoveUrlRoute(args[0]); err != nil {
				return err
			}
			fmt.Printf("Route %q removed\n", args[0])
			return nil
		})
	},
}

var routesListCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List routes, optionally for a single project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := ""
		if len(args) == 1 {
			project = args[0]
		}
		return withStore(func(db *store.Store) error {
			routes, err := db.ListUrlRoutes(project)
			if err != nil {
				return err
			}
			if len(routes) == 0 {
				fmt.Println("No routes configured")
				return nil
			}
			for _, r := range routes {
				fmt.Printf("%-40s %s\n", r.URL, r.Project)
			}
			return nil
		})
	},
}

func init() {
	routesCmd.AddCommand(routesAddCmd, routesRemoveCmd, routesListCmd)
	rootCmd.AddCommand(routesCmd)
}

// withStore opens the session store, runs fn, and closes it again. All
// admin subcommands share this shape.
func withStore(fn func(*store.Store) error) error {
	initRuntime()
	db, err := store.NewStore(expandPath(dbPath))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer db.Close()
	return fn(db)
}
