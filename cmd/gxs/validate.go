package main

import (
	"fmt"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/domain/robotworker"
	"github.com/gxo-labs/gxs/internal/logger"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"

	"github.com/spf13/cobra"
)

func newValidateCmd(global *globalOptions) *cobra.Command {
	var suitePath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a suite file without running any search",
		Long:  "Validates the schema, schema version and cross references of a suite, and checks that every strategy names a known heuristic and cost function.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(global.logLevel, global.logFormat, cmd.ErrOrStderr())
			log.Infof("Validating suite: %s", suitePath)

			suite, err := config.LoadSuiteFromFile(suitePath)
			if err != nil {
				log.Errorf("Suite validation failed:\n%v", err)
				return err
			}
			for _, st := range suite.EffectiveStrategies() {
				if st.Heuristic != "" {
					if _, err := robotworker.Heuristics.Get(st.Heuristic); err != nil {
						log.Errorf("Strategy '%s': %v", st.Name, err)
						return gxserrors.NewValidationError(fmt.Sprintf("strategy '%s'", st.Name), err)
					}
				}
				if st.Cost != "" {
					if _, err := robotworker.Costs.Get(st.Cost); err != nil {
						log.Errorf("Strategy '%s': %v", st.Name, err)
						return gxserrors.NewValidationError(fmt.Sprintf("strategy '%s'", st.Name), err)
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Suite '%s' is valid: %d cases, %d strategies.\n",
				suite.Name, len(suite.Cases), len(suite.EffectiveStrategies()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&suitePath, "suite", "s", "", "Path to the suite YAML file (required)")
	_ = cmd.MarkFlagRequired("suite")
	return cmd
}
