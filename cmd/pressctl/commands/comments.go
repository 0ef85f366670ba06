package commands

import (
	"fmt"
	"strconv"

	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/service"
	"github.com/spf13/cobra"
)

// cliIdentity moderates on behalf of the operator running pressctl.
var cliIdentity = auth.Identity{Username: "pressctl", IsStaff: true, Authenticated: true}

func newCommentsCmd(opts *globalOptions) *cobra.Command {
	commentsCmd := &cobra.Command{
		Use:   "comments",
		Short: "Moderate comments",
		Long: `Moderate comments in bulk.

Subcommands:
  approve     - Make comments visible on their post
  disapprove  - Hide comments again`,
	}

	commentsCmd.AddCommand(
		newModerateCmd(opts, "approve", true),
		newModerateCmd(opts, "disapprove", false),
	)
	return commentsCmd
}

func newModerateCmd(opts *globalOptions, name string, approve bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>...",
		Short: name + " comments by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			gdb, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			svc := service.NewCommentService(gdb)
			var matched int64
			if approve {
				matched, err = svc.Approve(cliIdentity, ids)
			} else {
				matched, err = svc.Disapprove(cliIdentity, ids)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d comment(s) %sd\n", matched, name)
			return nil
		},
	}
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid comment id %q", raw)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
