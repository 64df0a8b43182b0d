package cmd

import (
	"context"
	"fmt"

	"budget-tracker/internal/ledger"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email := stringFlagPtr(cmd, "email")

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			u, err := svc.CreateUser(ctx, name, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", u.ID, u.Name)
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			users, err := svc.ListUsers(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				email := "-"
				if u.Email != nil {
					email = *u.Email
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Name, email)
			}
			return nil
		})
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user's name or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		upd := ledger.UserUpdate{
			Name:  stringFlagPtr(cmd, "name"),
			Email: stringFlagPtr(cmd, "email"),
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			u, err := svc.UpdateUser(ctx, id, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user %d (%s)\n", u.ID, u.Name)
			return nil
		})
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a user and all of its accounts and transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			if err := svc.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", id)
			return nil
		})
	},
}

func init() {
	userAddCmd.Flags().String("name", "", "user name (required)")
	userAddCmd.Flags().String("email", "", "email address")
	_ = userAddCmd.MarkFlagRequired("name")

	userUpdateCmd.Flags().String("name", "", "new name")
	userUpdateCmd.Flags().String("email", "", "new email address")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userRmCmd)
}
