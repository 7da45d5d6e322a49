package writers

import (
	"encoding/base64"
	"unicode/utf8"

	"starclust/internal/cluster"
	"starclust/pkg/api"
)

// ToAPICluster converts a record to its v1 wire form. A cluster holding any
// sequence that is not valid UTF-8 is base64 encoded as a whole, so the text
// formats never replace bytes with U+FFFD.
func ToAPICluster(r cluster.Record) api.ClusterV1 {
	enc := func(b []byte) string { return string(b) }
	var encoding string
	if !validUTF8(r) {
		enc = base64.StdEncoding.EncodeToString
		encoding = api.EncodingBase64
	}
	members := make([]string, len(r.Members))
	for i, m := range r.Members {
		members[i] = enc(m)
	}
	return api.ClusterV1{
		Center:   enc(r.Center),
		Count:    r.Count,
		Members:  members,
		Size:     r.Size(),
		Encoding: encoding,
	}
}

func validUTF8(r cluster.Record) bool {
	if !utf8.Valid(r.Center) {
		return false
	}
	for _, m := range r.Members {
		if !utf8.Valid(m) {
			return false
		}
	}
	return true
}

// ToAPI converts a whole result, meta included.
func ToAPI(res *cluster.Result) api.ClustersV1 {
	out := api.ClustersV1{
		Meta: api.RunMetaV1{
			RunID:       res.Meta.RunID,
			Engine:      res.Meta.Engine,
			Fingerprint: res.Meta.Fingerprint,
			MaxDistance: res.Meta.MaxDistance,
			Ratio:       res.Meta.Ratio,
			Sequences:   res.Meta.Sequences,
			Clusters:    res.Len(),
			Total:       res.Total(),
		},
		Clusters: make([]api.ClusterV1, 0, res.Len()),
	}
	for _, r := range res.Clusters {
		out.Clusters = append(out.Clusters, ToAPICluster(r))
	}
	return out
}
