// Package api declares the Plume gRPC service: its message types, the
// service descriptor served by the server and a typed client.
//
// Messages are plain Go structs carried by a JSON codec registered under
// the "json" content subtype, so the wire format is JSON rather than
// protobuf; Client adds grpc.CallContentSubtype(CodecName) to every call.
// ServiceDesc is declared by hand to match.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of every Plume call.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
