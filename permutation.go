package matroska

import "log"

// deprecatedElements names a handful of historical/deprecated element IDs
// that still turn up in the wild (old muxers, abandoned draft revisions).
// They are never fatal — skip-unknown logs them by name instead of just
// by numeric ID so a human reading the log can tell "deprecated" from
// "genuinely foreign." Trimmed from the ~40-entry table the format
// carries, down to the paths this schema's scope actually touches.
var deprecatedElements = map[uint32]string{
	0x0D80:   "Muxer",              // pre-RFC bogus alias of MuxingApp
	0x537F:   "TrackOffset",        // superseded by TrackTranslate
	0x53B9:   "OldStereoMode",      // pre-cellar StereoMode encoding
	0x2534:   "Priority",           // removed from Tags in later drafts
	0x3A9697: "CodecSettings",      // free-text codec description, dropped
	0x3B4040: "CodecInfoURL",
	0x26B240: "CodecDownloadURL",
	0x96:     "CueRefTime",
	0x97:     "CueRefCluster",
	0x535F:   "CueRefNumber",
	0x6924:   "ChapterTranslateDeprecatedID",
}

// fieldSpec describes one declared child of a master element for the
// permutation parser: its ID, its cardinality (required/multi), and a
// callback that consumes a matching child's CRC-checked payload.
type fieldSpec struct {
	id       uint32
	name     string
	required bool // cardinality one / one_or_more
	multi    bool // cardinality zero_or_more / one_or_more
	seen     bool
	parse    func(data []byte) error
}

// permute parses the body of a master element whose children may appear
// in any order and may be interleaved with Void elements or unknown IDs
// (§4.3). fields is supplied in declaration order; permute invokes each
// field's parse callback once (or repeatedly for multi fields) and, once
// the body is exhausted, reports KindMissingElement for any required
// field that never matched.
//
// The loop makes repeated passes over the body: each pass skips a
// leading Void, then tries every not-yet-satisfied field in declaration
// order against the element at the cursor. If nothing matches, the
// element is assumed unknown (or genuinely malformed) and is skipped via
// skipUnknownElement; a completely stalled pass (nothing skippable, no
// data left) ends parsing.
func permute(body []byte, fields []*fieldSpec) error {
	pos := 0
	for pos < len(body) {
		if n, ok, err := trySkipVoid(body[pos:]); err != nil {
			return err
		} else if ok {
			pos += n
			continue
		}

		matched := false
		for _, f := range fields {
			if f.seen && !f.multi {
				continue
			}
			h, err := readHeader(body[pos:])
			if err != nil {
				break // not a parseable header here; fall through to skip-unknown
			}
			if h.ID != f.id {
				continue
			}
			end := pos + h.HeaderLen + int(h.Size)
			if end > len(body) {
				return &Error{ID: f.id, Kind: KindNom, msg: "truncated child element"}
			}
			payload, err := stripCRC(f.id, body[pos+h.HeaderLen:end])
			if err != nil {
				return err
			}
			if err := f.parse(payload); err != nil {
				return err
			}
			f.seen = true
			pos = end
			matched = true
			break
		}
		if matched {
			continue
		}

		n, err := skipUnknownElement(body[pos:])
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		pos += n
	}

	for _, f := range fields {
		if f.required && !f.seen {
			return &Error{ID: f.id, Kind: KindMissingElement, msg: f.name}
		}
	}
	return nil
}

// trySkipVoid consumes a Void element at the front of buf, if present.
func trySkipVoid(buf []byte) (n int, ok bool, err error) {
	h, err := readHeader(buf)
	if err != nil {
		return 0, false, nil
	}
	if h.ID != IDVoid {
		return 0, false, nil
	}
	total := h.HeaderLen + int(h.Size)
	if total > len(buf) {
		return 0, false, &Error{ID: IDVoid, Kind: KindNom, msg: "void element exceeds parent bounds"}
	}
	return total, true, nil
}

// skipUnknownElement consumes one element of unrecognized or deprecated
// ID at the front of buf and logs it, returning the number of bytes
// consumed (0 if buf does not start with a well-formed element header).
func skipUnknownElement(buf []byte) (int, error) {
	h, err := readHeader(buf)
	if err != nil {
		if _, ok := err.(*MoreDataNeeded); ok {
			return 0, &Error{Kind: KindNom, msg: "truncated element header"}
		}
		return 0, err
	}
	total := h.HeaderLen + int(h.Size)
	if total > len(buf) {
		return 0, &Error{ID: h.ID, Kind: KindNom, msg: "element exceeds parent bounds"}
	}
	if name, deprecated := deprecatedElements[h.ID]; deprecated {
		log.Printf("matroska: skipping deprecated element %s (0x%X, %d bytes)", name, h.ID, h.Size)
	} else {
		log.Printf("matroska: skipping unknown element 0x%X (%d bytes)", h.ID, h.Size)
	}
	return total, nil
}
