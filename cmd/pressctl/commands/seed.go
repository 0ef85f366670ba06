package commands

import (
	"fmt"

	"github.com/pressroom/internal/service"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the blog with sample data",
		Long: `Create sample categories, a staff account (admin / admin123), published posts
and approved comments. Existing rows are kept, so the command can run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Creating sample data...")

			report, err := service.NewSeedService(gdb).Run()
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			if report.AdminNew {
				fmt.Fprintln(out, "Created admin user (username: admin, password: admin123)")
			}
			fmt.Fprintf(out, "Created %d categories, %d posts, %d comments\n", report.Categories, report.Posts, report.Comments)
			fmt.Fprintln(out, "Successfully populated the blog with sample data!")
			return nil
		},
	}
}
