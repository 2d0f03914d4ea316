package redis

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestVectorToBytes(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.0}
	blob := vectorToBytes(vec)

	if len(blob) != len(vec)*4 {
		t.Fatalf("blob length = %d, want %d", len(blob), len(vec)*4)
	}

	b := []byte(blob)
	for i, want := range vec {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != want {
			t.Errorf("vec[%d] = %f, want %f", i, got, want)
		}
	}
}

func TestVectorToBytes_Empty(t *testing.T) {
	if blob := vectorToBytes(nil); blob != "" {
		t.Errorf("expected empty blob, got %d bytes", len(blob))
	}
}
