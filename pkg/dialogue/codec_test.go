package dialogue

import "testing"

type sampleState struct {
	Step    int
	Message string
}

func TestCodecsRoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"json":    JSONCodec{},
		"cbor":    CBORCodec{},
		"msgpack": MsgpackCodec{},
	}
	want := sampleState{Step: 2, Message: "hi"}

	for name, c := range codecs {
		data, err := c.Encode(want)
		if err != nil {
			t.Fatalf("%s: Encode: %v", name, err)
		}
		var got sampleState
		if err := c.Decode(data, &got); err != nil {
			t.Fatalf("%s: Decode: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: expected %+v, got %+v", name, want, got)
		}
	}
}
