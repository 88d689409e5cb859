// Package exiftest builds small JPEG files with hand-made EXIF blocks for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
)

// EXIF tag numbers used by the builders.
const (
	TagDateTimeOriginal = 0x9003
	TagGPSLatitudeRef   = 0x0001
	TagGPSLatitude      = 0x0002
	TagGPSLongitudeRef  = 0x0003
	TagGPSLongitude     = 0x0004

	tagExifIFD = 0x8769
	tagGPSIFD  = 0x8825

	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5
)

// Entry is one IFD entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// ASCII returns a NUL-terminated string entry.
func ASCII(tag uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{Tag: tag, Type: tiffASCII, Count: uint32(len(b)), Data: b}
}

// DMS returns a degrees/minutes/seconds rational triple with denominators of 1.
func DMS(tag uint16, d, m, s uint32) Entry {
	buf := new(bytes.Buffer)
	for _, v := range []uint32{d, 1, m, 1, s, 1} {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return Entry{Tag: tag, Type: tiffRational, Count: 3, Data: buf.Bytes()}
}

// Long returns a single LONG entry.
func Long(tag uint16, v uint32) Entry {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return Entry{Tag: tag, Type: tiffLong, Count: 1, Data: b}
}

// GPS returns the four entries of a complete GPS position.
func GPS(latRef string, lat [3]uint32, lonRef string, lon [3]uint32) []Entry {
	return []Entry{
		ASCII(TagGPSLatitudeRef, latRef),
		DMS(TagGPSLatitude, lat[0], lat[1], lat[2]),
		ASCII(TagGPSLongitudeRef, lonRef),
		DMS(TagGPSLongitude, lon[0], lon[1], lon[2]),
	}
}

// DateTaken returns the DateTimeOriginal entry.
func DateTaken(s string) []Entry {
	return []Entry{ASCII(TagDateTimeOriginal, s)}
}

func ifdLen(n int) uint32 { return uint32(2 + 12*n + 4) }

func encodeIFD(start uint32, entries []Entry) []byte {
	le := binary.LittleEndian
	dataOff := start + ifdLen(len(entries))
	head := new(bytes.Buffer)
	tail := new(bytes.Buffer)

	_ = binary.Write(head, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(head, le, e.Tag)
		_ = binary.Write(head, le, e.Type)
		_ = binary.Write(head, le, e.Count)
		if len(e.Data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.Data)
			head.Write(v)
			continue
		}
		_ = binary.Write(head, le, dataOff+uint32(tail.Len()))
		tail.Write(e.Data)
		if tail.Len()%2 == 1 {
			tail.WriteByte(0)
		}
	}
	_ = binary.Write(head, le, uint32(0))
	return append(head.Bytes(), tail.Bytes()...)
}

// TIFF lays out IFD0 followed by the Exif and GPS sub-IFDs.
func TIFF(exifEntries, gpsEntries []Entry) []byte {
	nPointers := 0
	if len(exifEntries) > 0 {
		nPointers++
	}
	if len(gpsEntries) > 0 {
		nPointers++
	}

	exifStart := 8 + ifdLen(nPointers)
	var exifIFD []byte
	if len(exifEntries) > 0 {
		exifIFD = encodeIFD(exifStart, exifEntries)
	}
	gpsStart := exifStart + uint32(len(exifIFD))
	var gpsIFD []byte
	if len(gpsEntries) > 0 {
		gpsIFD = encodeIFD(gpsStart, gpsEntries)
	}

	var pointers []Entry
	if len(exifEntries) > 0 {
		pointers = append(pointers, Long(tagExifIFD, exifStart))
	}
	if len(gpsEntries) > 0 {
		pointers = append(pointers, Long(tagGPSIFD, gpsStart))
	}

	out := new(bytes.Buffer)
	out.WriteString("II")
	_ = binary.Write(out, binary.LittleEndian, uint16(42))
	_ = binary.Write(out, binary.LittleEndian, uint32(8))
	out.Write(encodeIFD(8, pointers))
	out.Write(exifIFD)
	out.Write(gpsIFD)
	return out.Bytes()
}

func app1(tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)
	out := new(bytes.Buffer)
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	return out.Bytes()
}

// JPEG wraps a TIFF block in a minimal JPEG holding only an APP1 Exif segment.
// It carries no image data.
func JPEG(tiff []byte) []byte {
	out := []byte{0xFF, 0xD8}
	out = append(out, app1(tiff)...)
	return append(out, 0xFF, 0xD9)
}

// WithExif inserts an APP1 Exif segment right after the SOI marker of an encoded JPEG.
func WithExif(jpeg, tiff []byte) []byte {
	out := append([]byte{}, jpeg[:2]...)
	out = append(out, app1(tiff)...)
	return append(out, jpeg[2:]...)
}
