/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/secrets"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type setClientIDOpts struct {
	UsePositionalArgs

	argEnvironment string
	argClientID    string
}

func init() {
	o := setClientIDOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment.")
	args.AddStringArgumentOpt(&o.argClientID, "CLIENT_ID", "Auth0 client ID. Read from stdin if omitted or '-'.")

	cmd := &cobra.Command{
		Use:   "set-client-id ENVIRONMENT [CLIENT_ID]",
		Short: "Store the Auth0 client ID of an environment in the keyring",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Store the Auth0 client ID of an environment in the OS keyring, replacing any
			earlier value. The value is only used when 'auth0.clientId' of the environment
			is '@keyring' in spaenv.yaml.

			{Arguments}
		`),
		Example: trimIndent(`
			# Store the client ID of the development environment.
			spaenv secrets set-client-id development UPG7VM9OB5bTxDZ9i1Y0CD1n2huE7JoD

			# Read the client ID from a file to keep it out of the shell history.
			spaenv secrets set-client-id prod < client-id.txt
		`),
	}

	secretsCmd.AddCommand(cmd)
}

func (o *setClientIDOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

// readFirstLine returns the first line of r, trimmed.
func readFirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (o *setClientIDOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	envConfig, err := project.chooseEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	clientID := o.argClientID
	if clientID == "" || clientID == "-" {
		clientID, err = readFirstLine(os.Stdin)
		if err != nil {
			return clierrors.Wrap(err, "Failed to read the client ID from stdin")
		}
	}

	if err := secrets.SetClientID(project.Config.Project, envConfig.Name, clientID); err != nil {
		return clierrors.Wrap(err, "Failed to store the client ID").
			WithSuggestion("In CI, use the SPAENV_AUTH0_CLIENT_ID environment variable instead of the keyring")
	}

	log.Info().Msgf("%s Stored client ID %s for %s", styles.RenderSuccess("✓"),
		styles.RenderTechnical(envconfig.MaskClientID(strings.TrimSpace(clientID))),
		styles.RenderTechnical(envConfig.Name))

	if envConfig.Auth0.ClientID != envconfig.ClientIDKeyringPlaceholder {
		log.Warn().Msgf("Environment '%s' has a literal client ID in %s, so the stored value is not used.", envConfig.Name, "spaenv.yaml")
		log.Info().Msgf("Run %s to use the keyring.", styles.RenderTechnical("spaenv set "+envConfig.Name+" auth0.clientId @keyring"))
	}
	return nil
}
