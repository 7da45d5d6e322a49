// Package writers turns a clustering result into serialized output.
//
// Design:
//   - Writers own all presentation knowledge (text/JSON/JSONL/YAML/CBOR).
//   - align stays orchestration-only; cluster stays a plain data model.
//   - Structured formats go through pkg/api (v1) for a stable wire format.
//   - Text output writes sequence bytes verbatim; structured output base64
//     encodes any cluster that is not valid UTF-8 (see api.ClusterV1).
package writers
