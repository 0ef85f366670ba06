package commands

import (
	"errors"
	"fmt"

	"github.com/pressroom/internal/service"
	"github.com/spf13/cobra"
)

func newCreateUserCmd(opts *globalOptions) *cobra.Command {
	var (
		password string
		staff    bool
	)

	cmd := &cobra.Command{
		Use:   "create-user <username>",
		Short: "Create an account or promote it to staff",
		Long: `Create an account with a bcrypt hashed password. An existing account keeps
its password; --staff still promotes it.

Examples:
  pressctl create-user alice --password s3cret-pass
  pressctl create-user editor --password s3cret-pass --staff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}

			gdb, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			user, err := service.NewUserService(gdb).Ensure(args[0], password, staff)
			if err != nil {
				return err
			}

			role := "user"
			if user.IsStaff {
				role = "staff"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s ready (id %d, %s)\n", user.Username, user.ID, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password for a new account")
	cmd.Flags().BoolVar(&staff, "staff", false, "Grant staff permission")
	return cmd
}

func newDeleteUserCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Short: "Delete a user by username",
		Long:  `Delete the account together with its posts, the comments on those posts and its own comments.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			username := args[0]
			if _, err := service.NewUserService(gdb).DeleteByUsername(username); err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					return fmt.Errorf("user %q does not exist", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted user: %s\n", username)
			return nil
		},
	}
}
