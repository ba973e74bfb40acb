package indexbuild

import "encoding/binary"

// OffsetRecord is the fixed-size record of postings.index_offsets:
// the byte range of one term's postings block plus its cached
// document-frequency and corpus-term-count, indexed by term_id.
type OffsetRecord struct {
	Offset      uint64
	Length      uint64
	DocFreq     uint64
	CorpusCount uint64
}

func (r *OffsetRecord) Size() int { return 32 }

func (r *OffsetRecord) MarshalFixed(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], r.Offset)
	binary.LittleEndian.PutUint64(buf[8:16], r.Length)
	binary.LittleEndian.PutUint64(buf[16:24], r.DocFreq)
	binary.LittleEndian.PutUint64(buf[24:32], r.CorpusCount)
}

func (r *OffsetRecord) UnmarshalFixed(buf []byte) error {
	r.Offset = binary.LittleEndian.Uint64(buf[0:8])
	r.Length = binary.LittleEndian.Uint64(buf[8:16])
	r.DocFreq = binary.LittleEndian.Uint64(buf[16:24])
	r.CorpusCount = binary.LittleEndian.Uint64(buf[24:32])
	return nil
}

// U64Record is a flat fixed-size uint64 field, used for
// docsizes.counts and docs.uniqueterms.
type U64Record uint64

func (r *U64Record) Size() int { return 8 }
func (r *U64Record) MarshalFixed(buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(*r))
}
func (r *U64Record) UnmarshalFixed(buf []byte) error {
	*r = U64Record(binary.LittleEndian.Uint64(buf))
	return nil
}

// U32Record is a flat fixed-size uint32 field, used for docs.labels.
type U32Record uint32

func (r *U32Record) Size() int { return 4 }
func (r *U32Record) MarshalFixed(buf []byte) {
	binary.LittleEndian.PutUint32(buf, uint32(*r))
}
func (r *U32Record) UnmarshalFixed(buf []byte) error {
	*r = U32Record(binary.LittleEndian.Uint32(buf))
	return nil
}

// TermIDValue is the value half of the termids.mapping / label.ids
// MPH-maps: a dense id paired with its enrolling string via the MPH.
type TermIDValue uint64

func (v *TermIDValue) Size() int { return 8 }
func (v *TermIDValue) Encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(*v))
}
func (v *TermIDValue) Decode(buf []byte) error {
	*v = TermIDValue(binary.LittleEndian.Uint64(buf))
	return nil
}
