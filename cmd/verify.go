package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmesh/unistark/air"
	"github.com/zkmesh/unistark/challenger"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/stark"
	"github.com/zkmesh/unistark/types"
)

// verifyCmd represents the verification command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "reads a proof artifact and verifies it against its embedded configuration",
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	artifact, err := types.ReadProofWithPublicInputs(fProofPath)
	if err != nil {
		return err
	}

	// The artifact is self contained: it carries the parameters the proof
	// was built with.
	cfg, err := buildConfig(artifact.Config, artifact.Hasher)
	if err != nil {
		return err
	}
	publicValues := gl.Uint64ArrayToElementArray(artifact.PublicInputs)

	start := time.Now()
	if err := stark.Verify(cfg, air.FibonacciAir{}, &artifact.Proof, publicValues, challenger.New()); err != nil {
		return fmt.Errorf("proof rejected: %w", err)
	}
	log.Info().Msg("Successfully verified proof, time: " + time.Since(start).String())
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
