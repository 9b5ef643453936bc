package utils

import (
	"bytes"
	"reflect"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/charmap"
)

func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

func S2B(s string) []byte {
	const MaxInt32 = 1<<31 - 1
	return (*[MaxInt32]byte)(unsafe.Pointer((*reflect.StringHeader)(
		unsafe.Pointer(&s)).Data))[: len(s)&MaxInt32 : len(s)&MaxInt32]
}

func ContainsAny(group, sub []string) bool {
	for _, s := range sub {
		for _, a := range group {
			if a == s {
				return true
			}
		}
	}
	return false
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}

// DecodeText turns raw attribute bytes into clean UTF-8. NetCDF attribute
// text is NUL padded and occasionally Latin-1 encoded.
func DecodeText(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if utf8.Valid(b) {
		return B2S(b)
	}
	d, e := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if e != nil {
		return PurifyForUtf8(string(b))
	}
	return B2S(d)
}
