package h264decoder

// avccToAnnexB converts length-prefixed NALUs (AVCC, and HVCC which uses the
// same 4-byte layout) to Annex B format (start code prefixed). It returns nil if the sample does not contain a
// single complete NAL unit.
func avccToAnnexB(data []byte) []byte {
	var result []byte
	offset := 0

	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4

		if naluLen == 0 || offset+naluLen > len(data) {
			return nil
		}

		// Add Annex B start code
		result = append(result, 0, 0, 0, 1)
		result = append(result, data[offset:offset+naluLen]...)
		offset += naluLen
	}

	if offset != len(data) {
		return nil
	}
	return result
}
