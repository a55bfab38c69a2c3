package cmd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zkmesh/unistark/air"
	"github.com/zkmesh/unistark/challenger"
	gl "github.com/zkmesh/unistark/goldilocks"
	"github.com/zkmesh/unistark/stark"
	"github.com/zkmesh/unistark/types"
)

var fAddr string

// serveCmd represents the web API command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "runs a web server exposing proof generation and verification",
	RunE:  runApi,
}

func healthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Health check passed",
	}

	c.JSON(http.StatusOK, response)
}

// ProveRequest asks for a Fibonacci proof of the given trace height under
// the given parameters.
type ProveRequest struct {
	Rows   int             `json:"rows"`
	Config types.FriConfig `json:"config"`
	Hasher string          `json:"hasher"`
}

func generateProof(c *gin.Context) {
	var req ProveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := buildConfig(req.Config, req.Hasher)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trace, publicValues, err := air.NewFibonacciTrace(req.Rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proof, err := stark.Prove(cfg, air.FibonacciAir{}, trace, publicValues, challenger.New())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.ProofWithPublicInputs{
		Config:       cfg.Fri,
		Hasher:       cfg.Hasher.Name(),
		Proof:        proof,
		PublicInputs: gl.ElementArrayToUint64Array(publicValues),
	})
}

func verifyProof(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	artifact, err := types.ReadProofWithPublicInputsFromRequest(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := buildConfig(artifact.Config, artifact.Hasher)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	publicValues := gl.Uint64ArrayToElementArray(artifact.PublicInputs)

	if err := stark.Verify(cfg, air.FibonacciAir{}, &artifact.Proof, publicValues, challenger.New()); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func runApi(cmd *cobra.Command, args []string) error {
	router := gin.Default()
	router.GET("/health", healthCheck)
	router.POST("/prove", generateProof)
	router.POST("/verify", verifyProof)
	return router.Run(fAddr)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&fAddr, "addr", "0.0.0.0:8010", "listen address of the web API")
}
