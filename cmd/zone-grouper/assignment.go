package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAssignmentCommand(viper *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "assignment",
		Short: "Print the last published member group assignment",
		Long: `Read the member group assignment most recently published to the
	configured ConfigMap and print it as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			publisher, err := buildPublisher(viper, logger, newKubeClient)
			if err != nil {
				return err
			}

			assignment, err := publisher.Retrieve(cmd.Context())
			if err != nil {
				logger.Errorw("Failed to read published assignment", "error", err)
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(assignment)
		},
	}
}
