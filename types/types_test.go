package types

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func validConfig() FriConfig {
	return FriConfig{
		RateBits:        1,
		LogFinalPolyLen: 0,
		NumQueryRounds:  100,
		ProofOfWorkBits: 16,
	}
}

func TestFriConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cases := []struct {
		name   string
		mutate func(*FriConfig)
	}{
		{"zero query rounds", func(fc *FriConfig) { fc.NumQueryRounds = 0 }},
		{"zero pow bits", func(fc *FriConfig) { fc.ProofOfWorkBits = 0 }},
		{"pow bits beyond field sampling", func(fc *FriConfig) { fc.ProofOfWorkBits = 33 }},
		{"zero rate bits", func(fc *FriConfig) { fc.RateBits = 0 }},
		{"oversized rate bits", func(fc *FriConfig) { fc.RateBits = 11 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := validConfig()
			tc.mutate(&fc)
			require.Error(t, fc.Validate())
		})
	}
}

func TestFriParamsDerivedSizes(t *testing.T) {
	params := FriParams{Config: validConfig(), DegreeBits: 6}
	require.Equal(t, 7, params.LdeBits())
	require.Equal(t, 128, params.LdeSize())
	require.Equal(t, 6, params.NumRounds())
	require.Equal(t, 1, params.FinalPolyLen())

	params.Config.LogFinalPolyLen = 2
	require.Equal(t, 4, params.NumRounds())
	require.Equal(t, 4, params.FinalPolyLen())

	require.InDelta(t, 0.5, params.Config.Rate(), 1e-9)
}

func TestFriParamsValidate(t *testing.T) {
	params := FriParams{Config: validConfig(), DegreeBits: 6}
	require.NoError(t, params.Validate())

	params.Config.LogFinalPolyLen = 7
	require.Error(t, params.Validate(), "cannot fold below the final polynomial length")

	params = FriParams{Config: validConfig(), DegreeBits: 40}
	require.Error(t, params.Validate(), "lde must fit the two-adic subgroup")

	// DegreeBits comes off the wire, so the bound must hold in uint64
	// arithmetic: near 2^64 the sum with RateBits wraps back into range.
	params = FriParams{Config: validConfig(), DegreeBits: ^uint64(0)}
	require.Error(t, params.Validate(), "degree bits near 2^64 must not wrap")
}

func sampleProof() ProofWithPublicInputs {
	digest := func(fill byte) hexutil.Bytes {
		b := make(hexutil.Bytes, 32)
		for i := range b {
			b[i] = fill
		}
		return b
	}

	return ProofWithPublicInputs{
		Config: validConfig(),
		Hasher: "poseidon",
		Proof: Proof{
			DegreeBits:     6,
			TraceCommit:    digest(0xaa),
			QuotientCommit: digest(0xbb),
			Openings: OpenedValues{
				TraceLocal:     [][2]uint64{{1, 2}, {3, 4}, {5, 6}},
				TraceNext:      [][2]uint64{{7, 8}, {9, 10}, {11, 12}},
				QuotientChunks: [][2]uint64{{13, 14}},
			},
			OpeningProof: FriProof{
				CommitPhaseCommits: []hexutil.Bytes{digest(0xcc)},
				QueryProofs: []FriQueryProof{{
					InitialOpenings: []BatchOpening{{
						Values:   [][]uint64{{1, 2, 3}, {4, 5}},
						Siblings: []hexutil.Bytes{digest(0x01), digest(0x02)},
					}},
					CommitPhaseOpenings: []CommitPhaseOpening{{
						Evals:    [2][2]uint64{{21, 22}, {23, 24}},
						Siblings: []hexutil.Bytes{digest(0x03)},
					}},
				}},
				FinalPoly:  [][2]uint64{{31, 32}},
				PowWitness: 777,
			},
		},
		PublicInputs: []uint64{1, 1, 55},
	}
}

func TestProofJSONRoundTrip(t *testing.T) {
	original := sampleProof()

	encoded, err := json.Marshal(&original)
	require.NoError(t, err)

	// Digests travel 0x-prefixed, field names snake_case.
	require.Contains(t, string(encoded), `"trace_commit":"0xaaaa`)
	require.Contains(t, string(encoded), `"pow_witness":777`)
	require.Contains(t, string(encoded), `"public_inputs":[1,1,55]`)

	var decoded ProofWithPublicInputs
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, original, decoded)
}

func TestExportAndRead(t *testing.T) {
	original := sampleProof()
	path := filepath.Join(t.TempDir(), "proof.json")

	require.NoError(t, original.Export(path))

	loaded, err := ReadProofWithPublicInputs(path)
	require.NoError(t, err)
	require.Equal(t, original, loaded)

	_, err = ReadProofWithPublicInputs(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = ReadProofWithPublicInputsFromRequest([]byte("{not json"))
	require.Error(t, err)
}
