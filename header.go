package matroska

// EBMLHeader is the first element in every EBML file and describes how
// the rest of the stream must be parsed: the document type ("matroska"
// or "webm") and the EBML/doc-type version pair. All integer fields
// default to 1 except MaxIDLength (4) and MaxSizeLength (8), matching
// §3.3.
type EBMLHeader struct {
	Version            uint64
	ReadVersion        uint64
	MaxIDLength        uint64
	MaxSizeLength      uint64
	DocType            string
	DocTypeVersion     uint64
	DocTypeReadVersion uint64
}

// ParseEBMLHeader parses an EBMLHeader from the CRC-checked payload of an
// IDEBMLHeader element (the caller has already read the envelope).
func ParseEBMLHeader(payload []byte) (*EBMLHeader, error) {
	h := &EBMLHeader{
		Version:            1,
		ReadVersion:        1,
		MaxIDLength:        4,
		MaxSizeLength:      8,
		DocTypeVersion:     1,
		DocTypeReadVersion: 1,
	}

	var docTypeSet bool
	fields := []*fieldSpec{
		{id: IDEBMLVersion, name: "Version", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLVersion, d)
			h.Version = v
			return err
		}},
		{id: IDEBMLReadVersion, name: "ReadVersion", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLReadVersion, d)
			h.ReadVersion = v
			return err
		}},
		{id: IDEBMLMaxIDLength, name: "MaxIDLength", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLMaxIDLength, d)
			h.MaxIDLength = v
			return err
		}},
		{id: IDEBMLMaxSizeLength, name: "MaxSizeLength", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLMaxSizeLength, d)
			h.MaxSizeLength = v
			return err
		}},
		{id: IDEBMLDocType, name: "DocType", required: true, parse: func(d []byte) error {
			s, err := decodeString(IDEBMLDocType, d)
			h.DocType = s
			docTypeSet = true
			return err
		}},
		{id: IDEBMLDocTypeVersion, name: "DocTypeVersion", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLDocTypeVersion, d)
			h.DocTypeVersion = v
			return err
		}},
		{id: IDEBMLDocTypeReadVersion, name: "DocTypeReadVersion", parse: func(d []byte) error {
			v, err := decodeUint(IDEBMLDocTypeReadVersion, d)
			h.DocTypeReadVersion = v
			return err
		}},
	}

	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	_ = docTypeSet
	return h, nil
}

// Capacity implements EbmlSize.
func (h *EBMLHeader) Capacity() int {
	n := 0
	n += elementSize(IDEBMLVersion, len(encodeUint(h.Version)))
	n += elementSize(IDEBMLReadVersion, len(encodeUint(h.ReadVersion)))
	n += elementSize(IDEBMLMaxIDLength, len(encodeUint(h.MaxIDLength)))
	n += elementSize(IDEBMLMaxSizeLength, len(encodeUint(h.MaxSizeLength)))
	n += elementSize(IDEBMLDocType, len(h.DocType))
	n += elementSize(IDEBMLDocTypeVersion, len(encodeUint(h.DocTypeVersion)))
	n += elementSize(IDEBMLDocTypeReadVersion, len(encodeUint(h.DocTypeReadVersion)))
	return n
}

// Marshal writes the full (id, size, payload) envelope for the header.
func (h *EBMLHeader) Marshal() []byte {
	body := h.marshalBody()
	out := writeHeader(IDEBMLHeader, len(body))
	return append(out, body...)
}

func (h *EBMLHeader) marshalBody() []byte {
	var out []byte
	out = append(out, marshalUint(IDEBMLVersion, h.Version)...)
	out = append(out, marshalUint(IDEBMLReadVersion, h.ReadVersion)...)
	out = append(out, marshalUint(IDEBMLMaxIDLength, h.MaxIDLength)...)
	out = append(out, marshalUint(IDEBMLMaxSizeLength, h.MaxSizeLength)...)
	out = append(out, writeHeader(IDEBMLDocType, len(h.DocType))...)
	out = append(out, h.DocType...)
	out = append(out, marshalUint(IDEBMLDocTypeVersion, h.DocTypeVersion)...)
	out = append(out, marshalUint(IDEBMLDocTypeReadVersion, h.DocTypeReadVersion)...)
	return out
}

// marshalUint writes a complete (id, size, payload) element for an
// unsigned integer leaf, using the narrowest big-endian encoding.
func marshalUint(id uint32, v uint64) []byte {
	payload := encodeUint(v)
	out := writeHeader(id, len(payload))
	return append(out, payload...)
}

func marshalUint32(id uint32, v uint32) []byte {
	return marshalUint(id, uint64(v))
}

func marshalInt(id uint32, v int64) []byte {
	payload := encodeInt(v)
	out := writeHeader(id, len(payload))
	return append(out, payload...)
}

func marshalFloat(id uint32, v float64) []byte {
	payload := encodeFloat(v)
	out := writeHeader(id, len(payload))
	return append(out, payload...)
}

func marshalString(id uint32, s string) []byte {
	if s == "" {
		return nil
	}
	out := writeHeader(id, len(s))
	return append(out, []byte(s)...)
}

func marshalBinary(id uint32, b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := writeHeader(id, len(b))
	return append(out, b...)
}
