package matroska

// Cluster groups SimpleBlocks and BlockGroups sharing a base timestamp
// (§3.4): every contained Block's i16 timestamp is relative to
// Cluster.Timestamp. Position and PrevSize are optional random-access
// aids that are parsed when present; the muxer does not populate them.
type Cluster struct {
	Timestamp    uint64
	Position     uint64
	HasPosition  bool
	PrevSize     uint64
	HasPrevSize  bool
	SimpleBlocks []*SimpleBlock
	BlockGroups  []*BlockGroup
}

// ParseCluster parses the CRC-checked payload of an IDCluster element.
// Unlike the other master elements, a Cluster's SimpleBlock/BlockGroup
// children are zero_or_more with no required cardinality of their own;
// the Timestamp is the only required field (§3.4).
func ParseCluster(payload []byte) (*Cluster, error) {
	c := &Cluster{}
	fields := []*fieldSpec{
		{id: IDTimestamp, name: "Timestamp", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDTimestamp, d)
			c.Timestamp = v
			return err
		}},
		{id: IDPosition, name: "Position", parse: func(d []byte) error {
			v, err := decodeUint(IDPosition, d)
			c.Position = v
			c.HasPosition = true
			return err
		}},
		{id: IDPrevSize, name: "PrevSize", parse: func(d []byte) error {
			v, err := decodeUint(IDPrevSize, d)
			c.PrevSize = v
			c.HasPrevSize = true
			return err
		}},
		{id: IDSimpleBlock, name: "SimpleBlock", multi: true, parse: func(d []byte) error {
			sb, err := parseSimpleBlock(d)
			if err != nil {
				return err
			}
			c.SimpleBlocks = append(c.SimpleBlocks, sb)
			return nil
		}},
		{id: IDBlockGroup, name: "BlockGroup", multi: true, parse: func(d []byte) error {
			bg, err := parseBlockGroup(d)
			if err != nil {
				return err
			}
			c.BlockGroups = append(c.BlockGroups, bg)
			return nil
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	return c, nil
}

// Capacity implements EbmlSize.
func (c *Cluster) Capacity() int {
	n := elementSize(IDTimestamp, len(encodeUint(c.Timestamp)))
	if c.HasPosition {
		n += elementSize(IDPosition, len(encodeUint(c.Position)))
	}
	if c.HasPrevSize {
		n += elementSize(IDPrevSize, len(encodeUint(c.PrevSize)))
	}
	for _, sb := range c.SimpleBlocks {
		n += elementSize(IDSimpleBlock, sb.Capacity())
	}
	for _, bg := range c.BlockGroups {
		n += elementSize(IDBlockGroup, bg.Capacity())
	}
	return n
}

// Marshal writes the full (id, size, payload) envelope. Clusters are
// always written with a known size: the muxer closes a Cluster only once
// its total byte count is known, never streaming it open-ended.
func (c *Cluster) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDTimestamp, c.Timestamp)...)
	if c.HasPosition {
		body = append(body, marshalUint(IDPosition, c.Position)...)
	}
	if c.HasPrevSize {
		body = append(body, marshalUint(IDPrevSize, c.PrevSize)...)
	}
	for _, sb := range c.SimpleBlocks {
		body = append(body, sb.Marshal()...)
	}
	for _, bg := range c.BlockGroups {
		body = append(body, bg.Marshal()...)
	}
	out := writeHeader(IDCluster, len(body))
	return append(out, body...)
}
