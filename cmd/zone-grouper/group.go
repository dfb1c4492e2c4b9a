package main

import (
	"encoding/json"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGroupCommand(viper *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "group",
		Short: "Run a single grouping pass and print the member groups",
		Long: `Run a single grouping pass against the configured membership source and
	metadata discovery, print the resulting member groups as JSON and exit. The
	command fails if any member lacks zone, rack and host metadata.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			comps, err := buildComponents(viper, logger)
			if err != nil {
				return err
			}
			defer comps.Close()

			members, err := comps.source.ListMembers(cmd.Context())
			if err != nil {
				return err
			}

			groups, err := comps.factory.CreateMemberGroups(cmd.Context(), members)
			if err != nil {
				logger.Errorw("Grouping failed", "error", err)
				return err
			}

			assignment := publish.NewAssignment(comps.groupType, groups, time.Now())
			if comps.publisher != nil {
				if err := comps.publisher.Publish(cmd.Context(), assignment); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(assignment)
		},
	}
}
