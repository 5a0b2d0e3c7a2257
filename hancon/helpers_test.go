package hancon

import "encoding/binary"

// Test fixtures: hand-assembled OLE2 compound documents and HWP record
// streams, small enough to reason about sector by sector.

const testSectorSize = 512

// putDirEntry writes one 128-byte directory entry into buf.
func putDirEntry(buf []byte, name string, entryType uint8, left, right, child, startSector, streamSize uint32) {
	for i, r := range name {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(r))
	}
	binary.LittleEndian.PutUint16(buf[64:], uint16((len(name)+1)*2))
	buf[66] = entryType
	buf[67] = 1 // black
	binary.LittleEndian.PutUint32(buf[68:], left)
	binary.LittleEndian.PutUint32(buf[72:], right)
	binary.LittleEndian.PutUint32(buf[76:], child)
	binary.LittleEndian.PutUint32(buf[116:], startSector)
	binary.LittleEndian.PutUint32(buf[120:], streamSize)
}

// buildHWPFile assembles a compound document holding a FileHeader stream,
// a DocInfo stream and one BodyText/SectionN stream per element of
// sections. A nil docinfo omits the DocInfo entry entirely; an empty one
// yields a zero-length stream.
func buildHWPFile(docinfo []byte, sections [][]byte) []byte {
	fileHeader := make([]byte, 256) // content is never inspected

	type stream struct {
		data        []byte
		startSector uint32
	}
	streams := []*stream{{data: fileHeader}}
	var docinfoStream *stream
	if docinfo != nil {
		docinfoStream = &stream{data: docinfo}
		streams = append(streams, docinfoStream)
	}
	sectionStreams := make([]*stream, len(sections))
	for i, data := range sections {
		sectionStreams[i] = &stream{data: data}
		streams = append(streams, sectionStreams[i])
	}

	// Allocate data sectors, then the directory chain.
	fat := make([]uint32, 109)
	for i := range fat {
		fat[i] = secFree
	}
	nextSector := uint32(0)
	allocate := func(n int) uint32 {
		if n == 0 {
			return secEndOfChain
		}
		start := nextSector
		for i := 0; i < n; i++ {
			if i == n-1 {
				fat[nextSector] = secEndOfChain
			} else {
				fat[nextSector] = nextSector + 1
			}
			nextSector++
		}
		return start
	}
	sectorsFor := func(data []byte) int {
		return (len(data) + testSectorSize - 1) / testSectorSize
	}

	for _, s := range streams {
		s.startSector = allocate(sectorsFor(s.data))
	}

	// Directory: root, FileHeader, [DocInfo], [BodyText storage, sections].
	numEntries := 2 + len(sections)
	if docinfo != nil {
		numEntries++
	}
	if len(sections) > 0 {
		numEntries++ // the BodyText storage
	}
	dirSectors := (numEntries*dirEntrySize + testSectorSize - 1) / testSectorSize
	dirStart := allocate(dirSectors)

	dir := make([]byte, dirSectors*testSectorSize)
	entry := func(i int) []byte { return dir[i*dirEntrySize : (i+1)*dirEntrySize] }

	next := uint32(1)
	fileHeaderID := next
	next++
	docinfoID := uint32(secFree)
	if docinfo != nil {
		docinfoID = next
		next++
	}
	bodyTextID := uint32(secFree)
	if len(sections) > 0 {
		bodyTextID = next
		next++
	}

	putDirEntry(entry(0), "Root Entry", dirTypeRoot, secFree, secFree, fileHeaderID, secEndOfChain, 0)

	fhRight := docinfoID
	if fhRight == secFree {
		fhRight = bodyTextID
	}
	putDirEntry(entry(int(fileHeaderID)), "FileHeader", dirTypeStream,
		secFree, fhRight, secFree, streams[0].startSector, uint32(len(fileHeader)))

	if docinfo != nil {
		putDirEntry(entry(int(docinfoID)), "DocInfo", dirTypeStream,
			secFree, bodyTextID, secFree, docinfoStream.startSector, uint32(len(docinfo)))
	}

	if len(sections) > 0 {
		firstSection := next
		putDirEntry(entry(int(bodyTextID)), "BodyText", dirTypeStorage,
			secFree, secFree, firstSection, secEndOfChain, 0)
		for i, s := range sectionStreams {
			id := next
			next++
			right := uint32(secFree)
			if i+1 < len(sectionStreams) {
				right = next
			}
			name := "Section" + string(rune('0'+i))
			putDirEntry(entry(int(id)), name, dirTypeStream,
				secFree, right, secFree, s.startSector, uint32(len(s.data)))
		}
	}

	// Assemble: header, data sectors, directory sectors.
	out := make([]byte, 512+int(nextSector)*testSectorSize)
	copy(out, HWP_SIGNATURE)
	binary.LittleEndian.PutUint16(out[0x1E:], 9) // 512-byte sectors
	binary.LittleEndian.PutUint16(out[0x20:], 6)
	binary.LittleEndian.PutUint32(out[0x34:], dirStart)
	for i, v := range fat {
		binary.LittleEndian.PutUint32(out[0x4C+i*4:], v)
	}

	writeChain := func(start uint32, data []byte) {
		sector := start
		for off := 0; off < len(data); off += testSectorSize {
			end := off + testSectorSize
			if end > len(data) {
				end = len(data)
			}
			copy(out[512+int(sector)*testSectorSize:], data[off:end])
			sector = fat[sector]
		}
	}
	for _, s := range streams {
		writeChain(s.startSector, s.data)
	}
	writeChain(dirStart, dir)

	return out
}

// record assembles one HWP record frame, using the extended size form when
// the payload does not fit the 12-bit field.
func record(tagid, level uint16, payload []byte) []byte {
	size := uint32(len(payload))
	var out []byte
	if size >= 4095 {
		header := uint32(tagid)&0x3FF | (uint32(level)&0x3FF)<<10 | 4095<<20
		out = binary.LittleEndian.AppendUint32(out, header)
		out = binary.LittleEndian.AppendUint32(out, size)
	} else {
		header := uint32(tagid)&0x3FF | (uint32(level)&0x3FF)<<10 | size<<20
		out = binary.LittleEndian.AppendUint32(out, header)
	}
	return append(out, payload...)
}

// utf16le encodes s as UTF-16LE bytes.
func utf16le(s string) []byte {
	var out []byte
	for _, r := range s {
		out = binary.LittleEndian.AppendUint16(out, uint16(r))
	}
	return out
}
