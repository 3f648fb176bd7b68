package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint bearer tokens for the HTTP API",
		// tokens never touch the store
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(newTokenIssueCmd(app))
	return cmd
}

func newTokenIssueCmd(app *App) *cobra.Command {
	var (
		role   string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a player or coach",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Tokens == nil {
				return errors.New("jwt secret is not configured (set JWT_SECRET)")
			}
			id := primitive.NewObjectID()
			if userID != "" {
				var err error
				if id, err = primitive.ObjectIDFromHex(userID); err != nil {
					return fmt.Errorf("invalid --user %q", userID)
				}
			}
			actor := domain.Actor{ID: id, Role: domain.Role(role)}
			token, err := app.Tokens.IssueToken(actor)
			if err != nil {
				return err
			}
			out := struct {
				UserID string      `json:"userId"`
				Role   domain.Role `json:"role"`
				Token  string      `json:"token"`
			}{id.Hex(), actor.Role, token}
			return app.render(cmd.OutOrStdout(), out, func(tw io.Writer) {
				fmt.Fprintln(tw, "USER\tROLE\tTOKEN")
				fmt.Fprintf(tw, "%s\t%s\t%s\n", out.UserID, out.Role, out.Token)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCoach), "player or coach")
	cmd.Flags().StringVar(&userID, "user", "", "User id (hex); a fresh id when empty")
	return cmd
}
