package config

import "encoding/binary"

var scaleEnabled = true

// ScaleEnabled reports whether new motions carry scale channels
func ScaleEnabled() bool {
	return scaleEnabled
}

func SetScaleEnabled(enabled bool) {
	scaleEnabled = enabled
}

var byteOrder binary.ByteOrder = binary.LittleEndian

// ByteOrder of motion files used when caller does not choose one
func ByteOrder() binary.ByteOrder {
	return byteOrder
}

func SetByteOrder(bigEndian bool) {
	if bigEndian {
		byteOrder = binary.BigEndian
	} else {
		byteOrder = binary.LittleEndian
	}
}
