package utils

import (
	"io"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// GBK string 转 UTF-8
func GbkStrToUtf8(s string) (d string, e error) {
	reader := transform.NewReader(strings.NewReader(s), simplifiedchinese.GBK.NewDecoder())
	t, e := io.ReadAll(reader)
	if e != nil {
		return
	}
	d = B2S(t)
	return
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}

// 图层标题、描述可能来自GBK编码的数据产品，先尝试GBK解码，失败则剔除非法字节
func SafeUtf8(s string) string {
	if utf8.ValidString(s) {
		return PurifyForUtf8(s)
	}
	if d, e := GbkStrToUtf8(s); e == nil && utf8.ValidString(d) {
		return PurifyForUtf8(d)
	}
	return PurifyForUtf8(s)
}
