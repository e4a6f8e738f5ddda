package bufview

import "testing"

func TestReadsInBounds(t *testing.T) {
	v := New([]byte{0x01, 0x02, 0x03, 0x04})

	if got, err := v.ReadBE16(0); err != nil || got != 0x0102 {
		t.Fatalf("ReadBE16(0) = %#x, %v, want 0x0102, nil", got, err)
	}
	if got, err := v.ReadLE16(0); err != nil || got != 0x0201 {
		t.Fatalf("ReadLE16(0) = %#x, %v, want 0x0201, nil", got, err)
	}
	if got, err := v.ReadBE32(0); err != nil || got != 0x01020304 {
		t.Fatalf("ReadBE32(0) = %#x, %v, want 0x01020304, nil", got, err)
	}
	if got, err := v.ReadLE32(0); err != nil || got != 0x04030201 {
		t.Fatalf("ReadLE32(0) = %#x, %v, want 0x04030201, nil", got, err)
	}
}

func TestReadsOutOfBounds(t *testing.T) {
	v := New([]byte{0x01, 0x02, 0x03})

	if _, err := v.ReadBE32(0); err != ErrShortBuffer {
		t.Fatalf("ReadBE32 err = %v, want ErrShortBuffer", err)
	}
	if _, err := v.ReadBE16(2); err != ErrShortBuffer {
		t.Fatalf("ReadBE16(2) err = %v, want ErrShortBuffer", err)
	}
	if _, err := v.Byte(3); err != ErrShortBuffer {
		t.Fatalf("Byte(3) err = %v, want ErrShortBuffer", err)
	}
	if _, err := v.Byte(-1); err != ErrShortBuffer {
		t.Fatalf("Byte(-1) err = %v, want ErrShortBuffer", err)
	}
}

func TestSlice(t *testing.T) {
	v := New([]byte{0x01, 0x02, 0x03, 0x04})
	sub, err := v.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sub.Size() != 2 {
		t.Fatalf("Size = %d, want 2", sub.Size())
	}
	if b, _ := sub.Byte(0); b != 0x02 {
		t.Fatalf("Byte(0) = %#x, want 0x02", b)
	}

	if _, err := v.Slice(3, 1); err != ErrShortBuffer {
		t.Fatalf("Slice(3,1) err = %v, want ErrShortBuffer", err)
	}
	if _, err := v.Slice(0, 5); err != ErrShortBuffer {
		t.Fatalf("Slice(0,5) err = %v, want ErrShortBuffer", err)
	}
}
