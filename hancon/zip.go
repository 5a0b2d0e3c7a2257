package hancon

import (
	"encoding/binary"
	"hash/crc32"
)

// ZIP record signatures.
const (
	zipLocalFileHeaderSig = 0x04034B50
	zipCentralDirSig      = 0x02014B50
	zipEndOfCentralSig    = 0x06054B50
)

// ZipEntry is one member of the archive to be written.
type ZipEntry struct {
	Name string
	Data []byte
}

func pushU16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

func pushU32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// WriteZipStored emits a ZIP archive holding the given entries, in the
// given order, all stored (method 0, no compression). The mtime/mdate
// fields are zero so the output is deterministic. The CRC-32 of each
// entry is written into its local header, never a trailing descriptor;
// consumers that sniff the first member at a fixed offset (the ODF
// mimetype check) depend on this layout.
func WriteZipStored(entries []ZipEntry) ([]byte, error) {
	var out []byte
	var central []byte

	for _, entry := range entries {
		name := []byte(entry.Name)
		offset := uint32(len(out))
		size := uint32(len(entry.Data))
		crc := crc32.ChecksumIEEE(entry.Data)

		// Local file header.
		out = pushU32(out, zipLocalFileHeaderSig)
		out = pushU16(out, 20) // version needed
		out = pushU16(out, 0)  // flags
		out = pushU16(out, 0)  // method: stored
		out = pushU16(out, 0)  // mtime
		out = pushU16(out, 0)  // mdate
		out = pushU32(out, crc)
		out = pushU32(out, size)
		out = pushU32(out, size)
		out = pushU16(out, uint16(len(name)))
		out = pushU16(out, 0) // extra length
		out = append(out, name...)
		out = append(out, entry.Data...)

		// Central directory header.
		central = pushU32(central, zipCentralDirSig)
		central = pushU16(central, 20) // version made by
		central = pushU16(central, 20) // version needed
		central = pushU16(central, 0)  // flags
		central = pushU16(central, 0)  // method
		central = pushU16(central, 0)  // mtime
		central = pushU16(central, 0)  // mdate
		central = pushU32(central, crc)
		central = pushU32(central, size)
		central = pushU32(central, size)
		central = pushU16(central, uint16(len(name)))
		central = pushU16(central, 0) // extra length
		central = pushU16(central, 0) // comment length
		central = pushU16(central, 0) // disk number
		central = pushU16(central, 0) // internal attrs
		central = pushU32(central, 0) // external attrs
		central = pushU32(central, offset)
		central = append(central, name...)
	}

	centralOffset := uint32(len(out))
	out = append(out, central...)

	// End of central directory.
	out = pushU32(out, zipEndOfCentralSig)
	out = pushU16(out, 0) // disk number
	out = pushU16(out, 0) // central start disk
	out = pushU16(out, uint16(len(entries)))
	out = pushU16(out, uint16(len(entries)))
	out = pushU32(out, uint32(len(central)))
	out = pushU32(out, centralOffset)
	out = pushU16(out, 0) // comment length

	return out, nil
}
