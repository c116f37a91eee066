package valuecodec

import "testing"

func TestBinaryCodecFloat32RoundTrip(t *testing.T) {
	c := NewBinaryCodec()
	data, err := c.Encode(float32(8.0))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out float32
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != 8.0 {
		t.Errorf("got %v, want 8.0", out)
	}
}

func TestBinaryCodecStringRoundTrip(t *testing.T) {
	c := NewBinaryCodec()
	data, err := c.Encode("Herbert")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out string
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "Herbert" {
		t.Errorf("got %q, want %q", out, "Herbert")
	}
}

func TestBinaryCodecBytesRoundTrip(t *testing.T) {
	c := NewBinaryCodec()
	in := []byte{0x01, 0x02, 0x03, 0xff}
	data, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out []byte
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("got %v, want %v", out, in)
	}
}

func TestBinaryCodecIntRoundTrip(t *testing.T) {
	c := NewBinaryCodec()
	data, err := c.Encode(int32(-42))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out int32
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != -42 {
		t.Errorf("got %d, want -42", out)
	}
}

func TestBinaryCodecRejectsUnsupportedType(t *testing.T) {
	c := NewBinaryCodec()
	if _, err := c.Encode(struct{ X int }{X: 1}); err == nil {
		t.Error("expected an error encoding an unsupported type")
	}
}

type cborCat struct {
	Name  string
	Color string
}

func TestCBORCodecStructRoundTrip(t *testing.T) {
	c := NewCBORCodec()
	in := cborCat{Name: "Herbert", Color: "orange"}
	data, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out cborCat
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}
