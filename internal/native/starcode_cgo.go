//go:build cgo && starcode

package native

/*
#cgo LDFLAGS: -L${SRCDIR}/../../third_party/starcode -lstarcode -lpthread -lm

int starcode_helper(
    char* input,
    char* output,
    int tau,
    const int verbose,
    int thrmax,
    const int clusteralg,
    double parent_to_child,
    const int showclusters,
    const int showids,
    const int outputt
);

void init_tower(void);
void cleanup_tower(void);
*/
import "C"

// Starcode drives libstarcode. Its tower pointer is thread-local on the C
// side, so Init, Cluster and Cleanup must run on one OS thread (see
// internal/session).
type Starcode struct{}

func (Starcode) Name() string { return "starcode" }

func (Starcode) Init() { C.init_tower() }

func (Starcode) Cleanup() { C.cleanup_tower() }

func (Starcode) Cluster(c *Call) int {
	return int(C.starcode_helper(
		c.Input.p,
		c.Output.p,
		C.int(c.Tau),
		C.int(c.Verbose),
		C.int(c.Threads),
		C.int(c.ClusterAlg),
		C.double(c.Ratio),
		C.int(c.ShowClusters),
		C.int(c.ShowIDs),
		C.int(c.OutputType),
	))
}

// Default returns the backend compiled into this binary.
func Default() Backend { return Starcode{} }
