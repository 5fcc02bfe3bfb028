package matroska

// Seek is a single seek point: the 4-byte ID of a top-level element and
// its byte offset relative to the Segment payload's start.
type Seek struct {
	ID       [4]byte
	Position uint64
}

// Capacity implements EbmlSize.
func (s *Seek) Capacity() int {
	return elementSize(IDSeekID, 4) + elementSize(IDSeekPos, len(encodeUint(s.Position)))
}

// Marshal writes the (id, size, payload) envelope for one Seek entry.
func (s *Seek) Marshal() []byte {
	body := marshalBinary(IDSeekID, s.ID[:])
	body = append(body, marshalUint(IDSeekPos, s.Position)...)
	out := writeHeader(IDSeek, len(body))
	return append(out, body...)
}

// SeekHead indexes the byte offsets (relative to the Segment payload
// start) of the other top-level elements, so a reader can jump to Info or
// Tracks without scanning the whole Segment. §3.3 requires at least one
// entry.
type SeekHead struct {
	Entries []Seek
}

// ParseSeekHead parses the CRC-checked payload of an IDSeekHead element.
func ParseSeekHead(payload []byte) (*SeekHead, error) {
	sh := &SeekHead{}
	pos := 0
	for pos < len(payload) {
		if n, ok, err := trySkipVoid(payload[pos:]); err != nil {
			return nil, err
		} else if ok {
			pos += n
			continue
		}
		h, err := readHeader(payload[pos:])
		if err != nil {
			if _, ok := err.(*MoreDataNeeded); ok {
				return nil, &Error{ID: IDSeekHead, Kind: KindNom, msg: "truncated SeekHead"}
			}
			return nil, err
		}
		end := pos + h.HeaderLen + int(h.Size)
		if end > len(payload) {
			return nil, &Error{ID: IDSeekHead, Kind: KindNom, msg: "Seek exceeds SeekHead bounds"}
		}
		if h.ID == IDSeek {
			seek, err := parseSeek(payload[pos+h.HeaderLen : end])
			if err != nil {
				return nil, err
			}
			sh.Entries = append(sh.Entries, *seek)
		} else if n, err := skipUnknownElement(payload[pos:]); err != nil {
			return nil, err
		} else if n == 0 {
			break
		}
		pos = end
	}
	if len(sh.Entries) == 0 {
		return nil, &Error{ID: IDSeekHead, Kind: KindMissingElement, msg: "Seek"}
	}
	return sh, nil
}

func parseSeek(payload []byte) (*Seek, error) {
	s := &Seek{}
	var idSeen, posSeen bool
	fields := []*fieldSpec{
		{id: IDSeekID, name: "SeekID", required: true, parse: func(d []byte) error {
			b, err := decodeFixedBinary(IDSeekID, d, 4)
			if err != nil {
				return err
			}
			copy(s.ID[:], b)
			idSeen = true
			return nil
		}},
		{id: IDSeekPos, name: "SeekPosition", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDSeekPos, d)
			s.Position = v
			posSeen = true
			return err
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	_ = idSeen
	_ = posSeen
	return s, nil
}

// Capacity implements EbmlSize.
func (sh *SeekHead) Capacity() int {
	n := 0
	for i := range sh.Entries {
		n += elementSize(IDSeek, sh.Entries[i].Capacity())
	}
	return n
}

// Marshal writes the full (id, size, payload) envelope.
func (sh *SeekHead) Marshal() []byte {
	var body []byte
	for i := range sh.Entries {
		body = append(body, sh.Entries[i].Marshal()...)
	}
	out := writeHeader(IDSeekHead, len(body))
	return append(out, body...)
}
