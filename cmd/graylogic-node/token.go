package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/nerrad567/gray-logic-node/internal/auth"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

// runToken prints a signed access token for this node. The secret and
// node ID come from the same configuration the node runs with.
func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(out)
	role := fs.String("role", string(auth.RoleViewer), "role claim: viewer, operator or admin")
	subject := fs.String("subject", "commissioning", "subject claim")
	ttl := fs.Int("ttl", 0, "lifetime in minutes (default from security.jwt.access_token_ttl)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Security.JWT.Secret == "" {
		return fmt.Errorf("security.jwt.secret is not set")
	}
	minutes := cfg.Security.JWT.AccessTokenTTL
	if *ttl > 0 {
		minutes = *ttl
	}

	token, err := auth.GenerateAccessToken(*subject, auth.Role(*role), cfg.Node.ID, cfg.Security.JWT.Secret, minutes)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
