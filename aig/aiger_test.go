// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package aig

import (
	"bufio"
	"bytes"
	"testing"
)

func buildSample() *Circuit {
	c := NewCircuit(8)
	a := c.NewInput()
	b := c.NewInput()
	l := c.NewLatch()
	g := c.And(a, b)
	c.SetNext(l, g)
	c.AddOutput(c.Or(g, l))
	c.NameInput(0, "a")
	c.NameInput(1, "b")
	c.NameLatch(0, "st")
	c.NameOutput(0, "out")
	return c
}

func TestAsciiRoundTrip(t *testing.T) {
	c := buildSample()
	var buf bytes.Buffer
	if err := c.WriteAscii(&buf); err != nil {
		t.Fatalf("WriteAscii: %v", err)
	}
	c2, err := ReadAscii(&buf)
	if err != nil {
		t.Fatalf("ReadAscii: %v", err)
	}
	if len(c2.Inputs) != len(c.Inputs) {
		t.Errorf("inputs = %d, want %d", len(c2.Inputs), len(c.Inputs))
	}
	if len(c2.Latches) != len(c.Latches) {
		t.Errorf("latches = %d, want %d", len(c2.Latches), len(c.Latches))
	}
	if len(c2.Outputs) != len(c.Outputs) {
		t.Errorf("outputs = %d, want %d", len(c2.Outputs), len(c.Outputs))
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	c := buildSample()
	var buf bytes.Buffer
	if err := c.WriteBinary(&buf); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	c2, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}
	if len(c2.Inputs) != len(c.Inputs) {
		t.Errorf("inputs = %d, want %d", len(c2.Inputs), len(c.Inputs))
	}
	if len(c2.Outputs) != len(c.Outputs) {
		t.Errorf("outputs = %d, want %d", len(c2.Outputs), len(c.Outputs))
	}
}

func TestReadBinaryRejectsAsciiHeader(t *testing.T) {
	c := buildSample()
	var buf bytes.Buffer
	if err := c.WriteAscii(&buf); err != nil {
		t.Fatalf("WriteAscii: %v", err)
	}
	if _, err := ReadBinary(&buf); err != ErrBinaryMismatch {
		t.Errorf("ReadBinary on ascii stream: err = %v, want ErrBinaryMismatch", err)
	}
}

func TestWriteAsciiDeterministic(t *testing.T) {
	c := buildSample()
	var buf1, buf2 bytes.Buffer
	if err := c.WriteAscii(&buf1); err != nil {
		t.Fatalf("WriteAscii: %v", err)
	}
	if err := c.WriteAscii(&buf2); err != nil {
		t.Fatalf("WriteAscii: %v", err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Errorf("WriteAscii produced different output across repeated calls, symbol table order is not deterministic")
	}
}

func TestWriteBinaryDeterministic(t *testing.T) {
	c := buildSample()
	var buf1, buf2 bytes.Buffer
	if err := c.WriteBinary(&buf1); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	if err := c.WriteBinary(&buf2); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Errorf("WriteBinary produced different output across repeated calls, symbol table order is not deterministic")
	}
}

func TestWrite7Read7RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	for _, v := range []uint32{0, 1, 127, 128, 16384, 1 << 20, 0xffffffff} {
		write7(bw, v)
	}
	bw.Flush()
	br := bufio.NewReader(&buf)
	for _, want := range []uint32{0, 1, 127, 128, 16384, 1 << 20, 0xffffffff} {
		got, err := read7(br)
		if err != nil {
			t.Fatalf("read7: %v", err)
		}
		if uint32(got) != want {
			t.Errorf("read7 = %d, want %d", got, want)
		}
	}
}
