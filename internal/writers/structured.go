// internal/writers/structured.go
package writers

import (
	"encoding/json"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"starclust/internal/cluster"
)

// cborMode uses Core Deterministic Encoding: identical results give
// identical bytes.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("writers: CBOR encoder initialization failed: " + err.Error())
	}

	Register(FormatJSON, WriteJSON)
	Register(FormatYAML, WriteYAML)
	Register(FormatCBOR, WriteCBOR)
}

// WriteJSON writes the whole result as one indented JSON document.
func WriteJSON(w io.Writer, res *cluster.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToAPI(res))
}

func WriteYAML(w io.Writer, res *cluster.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToAPI(res)); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func WriteCBOR(w io.Writer, res *cluster.Result) error {
	return cborMode.NewEncoder(w).Encode(ToAPI(res))
}
