package stark

import (
	"fmt"

	"github.com/zkmesh/unistark/dft"
	"github.com/zkmesh/unistark/merkle"
	"github.com/zkmesh/unistark/types"
)

// Config collects every tunable of a proving run: the FRI parameters, the
// commitment hash and the domain transform. Nothing is read from ambient
// state, and the exact same configuration must be used to prove and to
// verify.
type Config struct {
	Fri    types.FriConfig
	Hasher merkle.Hasher
	Dft    dft.Transform
}

// DefaultConfig returns the standard instantiation: blowup 2, 100 query
// rounds, 16 bits of grinding, Poseidon commitments and the radix-2
// transform.
func DefaultConfig() *Config {
	return &Config{
		Fri: types.FriConfig{
			RateBits:        1,
			LogFinalPolyLen: 0,
			NumQueryRounds:  100,
			ProofOfWorkBits: 16,
		},
		Hasher: merkle.PoseidonHasher{},
		Dft:    dft.Radix2{},
	}
}

func (cfg *Config) Validate() error {
	if cfg.Hasher == nil {
		return fmt.Errorf("stark config: commitment hasher is not set")
	}
	if cfg.Dft == nil {
		return fmt.Errorf("stark config: domain transform is not set")
	}
	return cfg.Fri.Validate()
}

// friParams binds the configuration to a concrete trace degree.
func (cfg *Config) friParams(degreeBits uint64) *types.FriParams {
	return &types.FriParams{Config: cfg.Fri, DegreeBits: degreeBits}
}
