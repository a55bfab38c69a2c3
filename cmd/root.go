package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zkmesh/unistark/dft"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/stark"
	"github.com/zkmesh/unistark/types"
)

var (
	fRateBits        uint64
	fQueries         uint64
	fPowBits         uint64
	fLogFinalPolyLen uint64
	fHasher          string
	fProofPath       string
)

var rootCmd = &cobra.Command{
	Use:   "unistark",
	Short: "proves and verifies execution traces with a Goldilocks uni-STARK",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Uint64Var(&fRateBits, "rate-bits", 1, "log2 of the LDE blowup factor")
	rootCmd.PersistentFlags().Uint64Var(&fQueries, "queries", 100, "number of FRI query rounds")
	rootCmd.PersistentFlags().Uint64Var(&fPowBits, "pow-bits", 16, "leading zero bits required of the grinding response")
	rootCmd.PersistentFlags().Uint64Var(&fLogFinalPolyLen, "log-final-poly-len", 0, "log2 of the final FRI polynomial length")
	rootCmd.PersistentFlags().StringVar(&fHasher, "hasher", "poseidon", "commitment hash, poseidon or keccak")
	rootCmd.PersistentFlags().StringVar(&fProofPath, "proof", "proof_with_public_inputs.json", "path of the proof artifact")
}

// configFromFlags assembles the proving configuration from the persistent
// flags.
func configFromFlags() (*stark.Config, error) {
	return buildConfig(types.FriConfig{
		RateBits:        fRateBits,
		LogFinalPolyLen: fLogFinalPolyLen,
		NumQueryRounds:  fQueries,
		ProofOfWorkBits: fPowBits,
	}, fHasher)
}

// buildConfig assembles and validates a configuration from its wire form,
// shared by the flag path and the proof artifact path.
func buildConfig(fc types.FriConfig, hasherName string) (*stark.Config, error) {
	hasher, err := merkle.ByName(hasherName)
	if err != nil {
		return nil, err
	}
	cfg := &stark.Config{
		Fri:    fc,
		Hasher: hasher,
		Dft:    dft.Radix2{},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
