package hancon

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sentinel sector ids in the FAT.
const (
	secEndOfChain = 0xFFFFFFFE
	secFree       = 0xFFFFFFFF
)

// Directory entry types.
const (
	dirTypeStorage = 1
	dirTypeStream  = 2
	dirTypeRoot    = 5
)

const dirEntrySize = 128

// HWP_SIGNATURE is the magic cookie in the first 8 bytes of an OLE2
// compound document, and therefore of every HWP v5 file.
var HWP_SIGNATURE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// CompDocHeader holds the fields of interest from the fixed 512-byte OLE2
// header. The FAT here is the inline 109-entry array; chains that would
// need the DIFAT are out of scope.
type CompDocHeader struct {
	MinorVersion       uint16
	MajorVersion       uint16
	ByteOrder          uint16
	SectorSizePower    uint16
	MiniSectorPower    uint16
	NumFATSectors      uint32
	FirstDirSector     uint32
	FirstMiniFATSector uint32
	NumMiniFATSectors  uint32
	FAT                []uint32
}

// SectorSize returns the sector size in bytes.
func (h *CompDocHeader) SectorSize() int {
	return 1 << h.SectorSizePower
}

// MiniSectorSize returns the mini-stream sector size in bytes.
func (h *CompDocHeader) MiniSectorSize() int {
	return 1 << h.MiniSectorPower
}

func parseCompDocHeader(data []byte) (*CompDocHeader, error) {
	if len(data) < 512 {
		return nil, NewHwpError(ErrInvalidFormat, "OLE2 header must be at least 512 bytes")
	}
	if !checkSignature(data, 0, HWP_SIGNATURE) {
		return nil, &HwpError{Kind: ErrInvalidSignature}
	}

	h := &CompDocHeader{}
	h.MinorVersion, _ = readU16(data, 0x18)
	h.MajorVersion, _ = readU16(data, 0x1A)
	h.ByteOrder, _ = readU16(data, 0x1C)
	h.SectorSizePower, _ = readU16(data, 0x1E)
	h.MiniSectorPower, _ = readU16(data, 0x20)
	h.NumFATSectors, _ = readU32(data, 0x2C)
	h.FirstDirSector, _ = readU32(data, 0x34)
	h.FirstMiniFATSector, _ = readU32(data, 0x3C)
	h.NumMiniFATSectors, _ = readU32(data, 0x40)

	if h.SectorSizePower > 20 {
		return nil, NewHwpError(ErrParse, "sector size (2**%d) is preposterous", h.SectorSizePower)
	}

	h.FAT = make([]uint32, 0, 109)
	for i := 0; i < 109; i++ {
		v, ok := readU32(data, 0x4C+i*4)
		if !ok {
			break
		}
		h.FAT = append(h.FAT, v)
	}
	return h, nil
}

// DirEntry is one 128-byte entry of the compound document directory.
// Entries form a red-black tree per storage: LeftSibling and RightSibling
// point at peers, Child points into the subtree below a storage. A pointer
// value of 0xFFFFFFFF means absent.
type DirEntry struct {
	Name         string
	NameLen      uint16
	EntryType    uint8
	Color        uint8
	LeftSibling  uint32
	RightSibling uint32
	Child        uint32
	StartSector  uint32
	StreamSize   uint32
}

func parseDirEntry(data []byte) (*DirEntry, error) {
	if len(data) < dirEntrySize {
		return nil, NewHwpError(ErrParse, "directory entry must be %d bytes", dirEntrySize)
	}

	e := &DirEntry{}
	e.NameLen, _ = readU16(data, 64)
	if e.NameLen >= 2 && e.NameLen <= 64 {
		// NameLen counts bytes including the UTF-16 NUL terminator.
		e.Name = decodeUTF16LE(data[:e.NameLen-2])
	}
	e.EntryType, _ = readU8(data, 66)
	e.Color, _ = readU8(data, 67)
	e.LeftSibling, _ = readU32(data, 68)
	e.RightSibling, _ = readU32(data, 72)
	e.Child, _ = readU32(data, 76)
	e.StartSector, _ = readU32(data, 116)
	e.StreamSize, _ = readU32(data, 120)
	return e, nil
}

// decodeUTF16LE converts UTF-16LE bytes to a string, dropping trailing NULs.
// Malformed sequences are replaced rather than rejected.
func decodeUTF16LE(b []byte) string {
	for len(b) >= 2 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-2]
	}
	if len(b) == 0 {
		return ""
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return ""
	}
	return string(out)
}

// CompDoc reads streams out of an OLE2 compound document held in memory.
type CompDoc struct {
	Header *CompDocHeader

	// Logfile receives warnings about tolerated inconsistencies.
	Logfile io.Writer

	mem []byte
}

// NewCompDoc parses the OLE2 header of mem and returns a reader over it.
func NewCompDoc(mem []byte, logfile io.Writer) (*CompDoc, error) {
	header, err := parseCompDocHeader(mem)
	if err != nil {
		return nil, err
	}
	return &CompDoc{Header: header, Logfile: logfile, mem: mem}, nil
}

func (cd *CompDoc) warnf(format string, args ...interface{}) {
	if cd.Logfile != nil {
		fmt.Fprintf(cd.Logfile, "WARNING *** "+format+"\n", args...)
	}
}

// readFATChain follows the FAT from startSector, appending whole sectors,
// for at most maxSectors sectors (maxSectors < 0 means unbounded). The walk
// is tolerant: an offset past the buffer end or a sector id outside the
// inline FAT terminates the chain without error.
func (cd *CompDoc) readFATChain(startSector uint32, maxSectors int) []byte {
	sectorSize := cd.Header.SectorSize()
	var result []byte

	sector := startSector
	for count := 0; sector != secEndOfChain && sector != secFree; count++ {
		if maxSectors >= 0 && count >= maxSectors {
			break
		}
		offset := 512 + int(sector)*sectorSize
		if offset < 0 || offset+sectorSize > len(cd.mem) {
			break
		}
		result = append(result, cd.mem[offset:offset+sectorSize]...)

		if int(sector) >= len(cd.Header.FAT) {
			break
		}
		sector = cd.Header.FAT[sector]
	}
	return result
}

// dirChain returns the raw directory stream and the number of whole entries
// it holds. The chain length bounds every directory traversal.
func (cd *CompDoc) dirChain() ([]byte, int) {
	raw := cd.readFATChain(cd.Header.FirstDirSector, -1)
	return raw, len(raw) / dirEntrySize
}

// readDirEntry reads directory entry entryID out of the directory chain.
func (cd *CompDoc) readDirEntry(dir []byte, entryID uint32) (*DirEntry, error) {
	offset := int(entryID) * dirEntrySize
	if offset < 0 || offset+dirEntrySize > len(dir) {
		return nil, NewHwpError(ErrParse, "directory entry %d out of range", entryID)
	}
	return parseDirEntry(dir[offset : offset+dirEntrySize])
}

// namedEntry pairs a slash-joined path with its directory entry.
type namedEntry struct {
	Path  string
	Entry *DirEntry
}

// ListStreams visits every reachable directory entry exactly once and
// returns the stream entries with their full paths. The visit count is
// bounded by the directory chain length, so trees with pointer cycles
// terminate quietly instead of looping.
func (cd *CompDoc) ListStreams() ([]namedEntry, error) {
	dir, numEntries := cd.dirChain()
	if numEntries == 0 {
		return nil, NewHwpError(ErrParse, "compound document has no directory")
	}

	var result []namedEntry
	visited := make([]bool, numEntries)

	type frame struct {
		path    string
		entryID uint32
	}
	stack := []frame{{"", 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if int(f.entryID) >= numEntries || visited[f.entryID] {
			continue
		}
		visited[f.entryID] = true

		entry, err := cd.readDirEntry(dir, f.entryID)
		if err != nil {
			return nil, err
		}

		path := entry.Name
		if f.path != "" {
			path = f.path + "/" + entry.Name
		}

		switch entry.EntryType {
		case dirTypeStream:
			result = append(result, namedEntry{Path: path, Entry: entry})
		case dirTypeStorage, dirTypeRoot:
			if entry.EntryType == dirTypeRoot {
				// The root's name is not part of stream paths.
				path = f.path
			}
			if entry.Child != secFree {
				stack = append(stack, frame{path, entry.Child})
			}
		}

		if entry.RightSibling != secFree {
			stack = append(stack, frame{f.path, entry.RightSibling})
		}
		if entry.LeftSibling != secFree {
			stack = append(stack, frame{f.path, entry.LeftSibling})
		}
	}

	return result, nil
}

// StreamNames returns the slash-joined paths of all streams, mainly for
// diagnostics.
func (cd *CompDoc) StreamNames() []string {
	entries, err := cd.ListStreams()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Path)
	}
	return names
}

// GetStream resolves a slash-separated path such as "BodyText/Section0" and
// returns the stream content, truncated to the declared stream size.
func (cd *CompDoc) GetStream(name string) ([]byte, error) {
	entries, err := cd.ListStreams()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Path != name {
			continue
		}
		data := cd.readFATChain(e.Entry.StartSector, -1)
		if size := int(e.Entry.StreamSize); size < len(data) {
			data = data[:size]
		} else if size > len(data) {
			cd.warnf("OLE2 stream %q: expected size %d, actual size %d", name, size, len(data))
		}
		return data, nil
	}
	return nil, NewHwpError(ErrNotFound, "stream %q not found", name)
}
