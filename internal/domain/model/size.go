package model

import "strings"

// Size はサイズラベル。空はサイズ軸なし。
type Size string

const NoSize Size = ""

func (s Size) IsNone() bool {
	return s == NoSize
}

// ParseSize は古い表現（"", "N", "null", "undefined"）をサイズなしに揃える。
func ParseSize(raw string) Size {
	v := strings.TrimSpace(raw)
	switch v {
	case "", "N", "null", "undefined":
		return NoSize
	}
	return Size(v)
}

// Ptr は永続化用。サイズなしは nil。
func (s Size) Ptr() *string {
	if s.IsNone() {
		return nil
	}
	v := string(s)
	return &v
}

func SizeFromPtr(p *string) Size {
	if p == nil {
		return NoSize
	}
	return ParseSize(*p)
}
