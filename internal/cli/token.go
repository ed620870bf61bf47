package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/beercounter/internal/auth"
)

// newTokenCmd mints a bearer token for an identity, for local testing and scripts.
func newTokenCmd(s *settings) *cobra.Command {
	var (
		id  auth.Identity
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !id.Valid() {
				return errors.New("--uid is required")
			}
			if len(s.cfg.JWTSecret) < 16 {
				return errors.New("JWT_SECRET must be at least 16 characters")
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = s.cfg.TokenTTL
			}

			token, err := auth.NewJWTManager(s.cfg.JWTSecret, ttl).Generate(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id.UID, "uid", "", "User id, stored as the token subject")
	flags.StringVar(&id.Name, "name", "", "Display name")
	flags.StringVar(&id.PhotoURL, "photo", "", "Photo URL")
	flags.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime, defaults to TOKEN_TTL")
	return cmd
}
