package counter

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder 把文件字节转换为 UTF-8 文本。
//
// 约束说明：
// - 带 BOM 的文件按 BOM 识别（UTF-8 BOM 去掉，UTF-16 转码）
// - 未声明编码时内容原样交给分类器，由分类器按行校验 UTF-8
// - 声明了其它编码（如 windows-1252）时先整体转码
type Decoder struct {
	encoding encoding.Encoding
	name     string
}

// NewDecoder 根据编码名创建解码器，名称遵循 WHATWG 编码标签。
func NewDecoder(name string) (*Decoder, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		return &Decoder{name: "utf-8"}, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = label
	}
	// UTF-8 解码器会把非法字节替换掉，严格模式下不使用它。
	if canonical == "utf-8" {
		return &Decoder{name: canonical}, nil
	}
	return &Decoder{encoding: enc, name: canonical}, nil
}

// Name 返回规范化后的编码名。
func (d *Decoder) Name() string {
	if d.name == "" {
		return "utf-8"
	}
	return d.name
}

// Decode 执行转码，返回的切片可能与输入共享底层数组。
func (d *Decoder) Decode(content []byte) ([]byte, error) {
	var fallback transform.Transformer = transform.Nop
	if d.encoding != nil {
		fallback = d.encoding.NewDecoder()
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(fallback), content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Name(), err)
	}
	return decoded, nil
}
