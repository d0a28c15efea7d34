// Package cpf は CPF (ブラジルの納税者番号) の正規化と検証を提供します。
package cpf

import "strings"

// Normalize は CPF から数字以外の文字を取り除きます。
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid は CPF のチェックディジットを検証します。
// 正規化後に 11 桁でない場合、全桁が同一の場合、またはいずれかの
// チェックディジットが一致しない場合は false を返します。
func Valid(raw string) bool {
	normalized := Normalize(raw)
	if len(normalized) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(normalized); i++ {
		if normalized[i] != normalized[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	digits := make([]int, 11)
	for i := 0; i < 11; i++ {
		digits[i] = int(normalized[i] - '0')
	}

	return checkDigit(digits, 9) == digits[9] && checkDigit(digits, 10) == digits[10]
}

// checkDigit は先頭 length 桁に対する検証ディジットを計算します。
// 重みは length+1 から 2 へ降順、(sum*10) mod 11 の結果 10 は 0 に丸めます。
func checkDigit(digits []int, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += digits[i] * (length + 1 - i)
	}
	d := (sum * 10) % 11
	if d == 10 {
		d = 0
	}
	return d
}
