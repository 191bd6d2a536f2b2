package dialogue

import (
	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
)

// json is the drop-in encoding/json replacement, matching the
// convention used across pkg/codec and pkg/payloads.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec encodes dialogue state as JSON (spec.md §4.8's default
// encoding).
type JSONCodec struct{}

func (JSONCodec) Encode(state any) ([]byte, error)  { return json.Marshal(state) }
func (JSONCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }
func (JSONCodec) VariableShape() bool               { return true }

// CBORCodec encodes dialogue state as CBOR, a smaller self-describing
// binary format than JSON for states with deep nesting (spec.md §4.8
// "pluggable encoding").
type CBORCodec struct{}

func (CBORCodec) Encode(state any) ([]byte, error)  { return cbor.Marshal(state) }
func (CBORCodec) Decode(data []byte, out any) error { return cbor.Unmarshal(data, out) }
func (CBORCodec) VariableShape() bool               { return true }

// MsgpackCodec stands in for spec.md's "Bincode": VariableShape
// deliberately reports false to model Bincode's fixed-schema limitation,
// not msgpack's own. Msgpack itself tolerates variable-shape data fine
// (it carries field tags in the wire format, unlike Bincode's bare
// positional layout), but any dialogue state embedding an optional field
// or a slice — which most do, once they hold a types.Message — would
// break a true Bincode encoding's no-length-prefix assumption. Flagging
// it here keeps that limitation visible to callers even though this
// stand-in encoding could technically handle such states.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(state any) ([]byte, error)  { return msgpack.Marshal(state) }
func (MsgpackCodec) Decode(data []byte, out any) error { return msgpack.Unmarshal(data, out) }
func (MsgpackCodec) VariableShape() bool               { return false }
