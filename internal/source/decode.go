package source

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding names the on-disk text encoding a file was decoded from.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingUTF32LE
	EncodingUTF32BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	case EncodingUTF32LE:
		return "utf-32le"
	case EncodingUTF32BE:
		return "utf-32be"
	}
	return "unknown"
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// sniffEncoding определяет кодировку по BOM. Без BOM считаем UTF-8.
// UTF-32LE проверяется раньше UTF-16LE: их BOM совпадают в первых двух байтах.
func sniffEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF32LE):
		return EncodingUTF32LE
	case bytes.HasPrefix(content, bomUTF32BE):
		return EncodingUTF32BE
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	}
	return EncodingUTF8
}

func decoderFor(enc Encoding) encoding.Encoding {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case EncodingUTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM)
	case EncodingUTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)
	}
	return nil
}

// decodeContent converts raw file bytes to UTF-8 and strips any BOM.
func decodeContent(raw []byte) (content []byte, enc Encoding, hadBOM bool, err error) {
	enc = sniffEncoding(raw)
	if enc == EncodingUTF8 {
		if bytes.HasPrefix(raw, bomUTF8) {
			return raw[len(bomUTF8):], enc, true, nil
		}
		return raw, enc, false, nil
	}
	out, err := decoderFor(enc).NewDecoder().Bytes(raw)
	if err != nil {
		return nil, enc, true, fmt.Errorf("decode %s: %w", enc, err)
	}
	return out, enc, true, nil
}
