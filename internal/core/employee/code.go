package employee

import "math/rand"

const (
	codeUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLowercase = "abcdefghijklmnopqrstuvwxyz"
)

// RandomSource は従業員コード生成に使う乱数源です。
type RandomSource interface {
	Intn(n int) int
}

type mathRandSource struct{}

func (mathRandSource) Intn(n int) int {
	return rand.Intn(n)
}

// GenerateCode は 7 文字の従業員コードを生成します。
// 形式は数字 1 文字、大文字 5 文字、小文字 1 文字 (例: "4SXXFMf") です。
// 一意性はこの関数では保証されず、呼び出し側が衝突を確認します。
func GenerateCode(src RandomSource) string {
	buf := make([]byte, 0, 7)
	buf = append(buf, byte('0'+src.Intn(10)))
	for i := 0; i < 5; i++ {
		buf = append(buf, codeUppercase[src.Intn(len(codeUppercase))])
	}
	buf = append(buf, codeLowercase[src.Intn(len(codeLowercase))])
	return string(buf)
}
