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

var fRows int

// proveCmd represents the proof command
var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "generates a Fibonacci trace, proves it, verifies the result and writes the proof to a json file",
	RunE:  prove,
}

func prove(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags()
	if err != nil {
		return err
	}

	trace, publicValues, err := air.NewFibonacciTrace(fRows)
	if err != nil {
		return err
	}

	start := time.Now()
	proof, err := stark.Prove(cfg, air.FibonacciAir{}, trace, publicValues, challenger.New())
	if err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}
	log.Info().Msg("Successfully created proof, time: " + time.Since(start).String())

	start = time.Now()
	if err := stark.Verify(cfg, air.FibonacciAir{}, &proof, publicValues, challenger.New()); err != nil {
		return fmt.Errorf("freshly created proof does not verify: %w", err)
	}
	log.Info().Msg("Successfully verified proof, time: " + time.Since(start).String())

	artifact := types.ProofWithPublicInputs{
		Config:       cfg.Fri,
		Hasher:       cfg.Hasher.Name(),
		Proof:        proof,
		PublicInputs: gl.ElementArrayToUint64Array(publicValues),
	}
	if err := artifact.Export(fProofPath); err != nil {
		return err
	}
	log.Info().Msg("Saved proof to " + fProofPath)
	return nil
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().IntVar(&fRows, "rows", 64, "trace height, a power of two of at least 2")
}
