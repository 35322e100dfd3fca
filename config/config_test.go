package config

import (
	"encoding/binary"
	"testing"
)

func TestSetEncoding(t *testing.T) {
	defer SetEncoding(EncodingName())

	names := ListEncodings()
	if len(names) < 2 || names[0] != "UTF-8" {
		t.Fatalf("ListEncodings()=%v; expected UTF-8 first", names)
	}
	for _, name := range names {
		if err := SetEncoding(name); err != nil {
			t.Errorf("SetEncoding(%q)=%v; expected nil", name, err)
		}
		if EncodingName() != name {
			t.Errorf("EncodingName()=%q; expected %q", EncodingName(), name)
		}
	}

	if err := SetEncoding("windows 1252"); err != nil || EncodingName() != DefaultNameEncoding {
		t.Errorf("SetEncoding(%q)=%v, EncodingName()=%q; expected %q", "windows 1252", err, EncodingName(), DefaultNameEncoding)
	}
	if err := SetEncoding("no such encoding"); err == nil {
		t.Errorf("SetEncoding of unknown encoding must fail")
	}
}

func TestByteOrder(t *testing.T) {
	defer SetByteOrder(false)

	SetByteOrder(true)
	if ByteOrder() != binary.BigEndian {
		t.Errorf("ByteOrder()=%v; expected big endian", ByteOrder())
	}
	SetByteOrder(false)
	if ByteOrder() != binary.LittleEndian {
		t.Errorf("ByteOrder()=%v; expected little endian", ByteOrder())
	}
}
