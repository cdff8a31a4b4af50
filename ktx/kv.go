package ktx

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/texpack"
)

// encodeKV serializes props into the repeated {uint32 length, key\0
// value\0, padding to a 4-byte boundary} layout shared by KTX1's
// key/value data block and KTX2's key/value descriptor (both containers
// use the same entry shape; only the surrounding header fields that
// locate the block differ).
func encodeKV(props *Props) []byte {
	var out []byte
	props.Range(func(key, value string) {
		entry := make([]byte, 0, len(key)+len(value)+2)
		entry = append(entry, key...)
		entry = append(entry, 0)
		entry = append(entry, value...)
		entry = append(entry, 0)

		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(entry)))
		out = append(out, lenBuf[:]...)
		out = append(out, entry...)

		for len(out)%4 != 0 {
			out = append(out, 0)
		}
	})
	return out
}

// decodeKV parses an encodeKV-produced block back into a Props. It
// rejects duplicate keys (Props.Set's own rule) and truncated entries.
func decodeKV(data []byte) (*Props, error) {
	props := NewProps()
	off := 0
	for off < len(data) {
		if off+4 > len(data) {
			return nil, texpack.NewError("ktx.decodeKV", texpack.KindTruncatedHeader,
				fmt.Errorf("truncated key/value entry length at offset %d", off))
		}
		entryLen := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if entryLen < 0 || off+entryLen > len(data) {
			return nil, texpack.NewError("ktx.decodeKV", texpack.KindTruncatedHeader,
				fmt.Errorf("key/value entry of length %d exceeds remaining block", entryLen))
		}
		entry := data[off : off+entryLen]
		off += entryLen

		nul := -1
		for i, b := range entry {
			if b == 0 {
				nul = i
				break
			}
		}
		if nul < 0 {
			return nil, texpack.NewError("ktx.decodeKV", texpack.KindBadSignature,
				fmt.Errorf("key/value entry has no key terminator"))
		}
		key := string(entry[:nul])
		value := entry[nul+1:]
		// Trailing NUL terminator, if present, is not part of the value.
		if len(value) > 0 && value[len(value)-1] == 0 {
			value = value[:len(value)-1]
		}
		if err := props.Set(key, string(value)); err != nil {
			return nil, err
		}

		for off%4 != 0 {
			off++
		}
	}
	return props, nil
}
