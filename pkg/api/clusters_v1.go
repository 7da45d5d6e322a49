// pkg/api/clusters_v1.go
package api

// ClusterV1 is the stable JSON/JSONL/YAML/CBOR schema for one cluster.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
//
// Sequences are raw bytes. When the center or any member is not valid UTF-8,
// Encoding is "base64" and every sequence of that cluster is standard base64;
// otherwise Encoding is empty and sequences are plain text.
type ClusterV1 struct {
	Center  string   `json:"center" yaml:"center" cbor:"center"`
	Count   int      `json:"count" yaml:"count" cbor:"count"`
	Members []string `json:"members" yaml:"members" cbor:"members"` // never includes center
	Size    int      `json:"size" yaml:"size" cbor:"size"`          // len(members)+1

	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty" cbor:"encoding,omitempty"`
}

// EncodingBase64 marks a cluster whose sequences are base64 encoded.
const EncodingBase64 = "base64"

// RunMetaV1 describes the run that produced a ClustersV1 document.
type RunMetaV1 struct {
	RunID       string  `json:"run_id,omitempty" yaml:"run_id,omitempty" cbor:"run_id,omitempty"`
	Engine      string  `json:"engine,omitempty" yaml:"engine,omitempty" cbor:"engine,omitempty"`
	Fingerprint string  `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty" cbor:"fingerprint,omitempty"`
	MaxDistance int     `json:"max_distance" yaml:"max_distance" cbor:"max_distance"`
	Ratio       float64 `json:"ratio,omitempty" yaml:"ratio,omitempty" cbor:"ratio,omitempty"`
	Sequences   int     `json:"sequences" yaml:"sequences" cbor:"sequences"`
	Clusters    int     `json:"clusters" yaml:"clusters" cbor:"clusters"`
	Total       int     `json:"total" yaml:"total" cbor:"total"`
}

// ClustersV1 is the whole-result document for json, yaml and cbor output.
type ClustersV1 struct {
	Meta     RunMetaV1   `json:"meta" yaml:"meta" cbor:"meta"`
	Clusters []ClusterV1 `json:"clusters" yaml:"clusters" cbor:"clusters"`
}
