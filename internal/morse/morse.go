// Package morse 负责明文与点划信号码之间的转换，消息正文以信号码形式存储。
package morse

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// WordSeparator 对应空格，不参与反向查表。
	WordSeparator = "/"
	// Unknown 是 Encode 对表外字符的输出。
	Unknown = "?"
	// Unrecognized 是 Decode 对无法识别的码段的输出。
	Unrecognized = "#"
)

// Entry 是编码表中的一行。
type Entry struct {
	Char rune   `json:"char"`
	Code string `json:"code"`
}

var standard = []Entry{
	{'A', ".-"}, {'B', "-..."}, {'C', "-.-."}, {'D', "-.."}, {'E', "."}, {'F', "..-."},
	{'G', "--."}, {'H', "...."}, {'I', ".."}, {'J', ".---"}, {'K', "-.-"}, {'L', ".-.."},
	{'M', "--"}, {'N', "-."}, {'O', "---"}, {'P', ".--."}, {'Q', "--.-"}, {'R', ".-."},
	{'S', "..."}, {'T', "-"}, {'U', "..-"}, {'V', "...-"}, {'W', ".--"}, {'X', "-..-"},
	{'Y', "-.--"}, {'Z', "--.."}, {'0', "-----"}, {'1', ".----"}, {'2', "..---"},
	{'3', "...--"}, {'4', "....-"}, {'5', "....."}, {'6', "-...."},
	{'7', "--..."}, {'8', "---.."}, {'9', "----."}, {' ', WordSeparator},
	{',', "--..--"}, {'.', ".-.-.-"}, {'?', "..--.."}, {'!', "-.-.--"},
	{':', "---..."}, {'\'', ".----."}, {'"', ".-..-."}, {'-', "-....-"},
	{'/', "-..-."}, {'(', "-.--."}, {')', "-.--.-"},
}

// Codec 是字符与信号码之间不可变的双向映射。
type Codec struct {
	entries []Entry
	encode  map[rune]string
	decode  map[string]rune
}

// NewCodec 校验编码表并建立双向索引：字符和码都不能重复，码只能由 '.' 和 '-' 组成，
// 只有空格可以映射到分词符。
func NewCodec(entries []Entry) (*Codec, error) {
	c := &Codec{
		entries: make([]Entry, len(entries)),
		encode:  make(map[rune]string, len(entries)),
		decode:  make(map[string]rune, len(entries)),
	}
	copy(c.entries, entries)
	for _, e := range entries {
		if _, ok := c.encode[e.Char]; ok {
			return nil, fmt.Errorf("morse: duplicate character %q", e.Char)
		}
		if e.Char == ' ' {
			if e.Code != WordSeparator {
				return nil, fmt.Errorf("morse: space must map to %q, got %q", WordSeparator, e.Code)
			}
			c.encode[e.Char] = e.Code
			continue
		}
		if !isSignal(e.Code) {
			return nil, fmt.Errorf("morse: invalid code %q for %q", e.Code, e.Char)
		}
		if prev, ok := c.decode[e.Code]; ok {
			return nil, fmt.Errorf("morse: code %q shared by %q and %q", e.Code, prev, e.Char)
		}
		c.encode[e.Char] = e.Code
		c.decode[e.Code] = e.Char
	}
	return c, nil
}

func isSignal(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r != '.' && r != '-' {
			return false
		}
	}
	return true
}

// IsPattern 判断 pattern 是否只由信号码段和分词符组成。空白串不算合法信号。
func IsPattern(pattern string) bool {
	fields := strings.Fields(pattern)
	if len(fields) == 0 {
		return false
	}
	for _, tok := range fields {
		if tok != WordSeparator && !isSignal(tok) {
			return false
		}
	}
	return true
}

// Encode 先做完整的 Unicode 大写转换（ß 变为 SS），再逐个字符输出码，码之间用单个空格分隔。
// 表外字符输出 Unknown。
func (c *Codec) Encode(text string) string {
	if text == "" {
		return ""
	}
	upper := cases.Upper(language.Und).String(text)
	out := make([]string, 0, len(upper))
	for _, r := range upper {
		code, ok := c.encode[r]
		if !ok {
			code = Unknown
		}
		out = append(out, code)
	}
	return strings.Join(out, " ")
}

// Decode 按空白切分后逐段反查。分词符还原为空格，查不到的码段输出 Unrecognized。
func (c *Codec) Decode(pattern string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(pattern) {
		if tok == WordSeparator {
			b.WriteByte(' ')
			continue
		}
		r, ok := c.decode[tok]
		if !ok {
			b.WriteString(Unrecognized)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Table 按展示顺序返回编码表的副本。
func (c *Codec) Table() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

var std = mustNewCodec(standard)

func mustNewCodec(entries []Entry) *Codec {
	c, err := NewCodec(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Default 返回基于标准编码表的 Codec。
func Default() *Codec { return std }

func Encode(text string) string { return std.Encode(text) }

func Decode(pattern string) string { return std.Decode(pattern) }

func Table() []Entry { return std.Table() }
