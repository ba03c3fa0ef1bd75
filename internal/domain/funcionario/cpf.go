package funcionario

import (
	"errors"
	"strings"
)

var (
	ErrCPFMalformed = errors.New("must contain exactly 11 digits")
	ErrCPFRepeated  = errors.New("must not repeat a single digit")
	ErrCPFChecksum  = errors.New("check digits do not match")
)

// NormalizeCPF strips formatting punctuation from a CPF and validates the
// remaining 11-digit sequence, including both mod-11 check digits. It
// returns the bare digit string, which is the form stored and compared for
// uniqueness.
func NormalizeCPF(raw string) (string, error) {
	digits := stripNonDigits(raw)
	if len(digits) != 11 {
		return "", ErrCPFMalformed
	}
	if allSameDigit(digits) {
		return "", ErrCPFRepeated
	}
	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return "", ErrCPFChecksum
	}
	if checkDigit(digits, 10) != int(digits[10]-'0') {
		return "", ErrCPFChecksum
	}
	return digits, nil
}

// FormatCPF renders a normalized CPF as ###.###.###-##. Inputs that are not
// 11 digits long come back unchanged.
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

// checkDigit computes the verification digit over the first length digits:
// weights run from length+1 down to 2, and remainders 10 and 11 map to 0.
func checkDigit(digits string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return dv
}

func stripNonDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
