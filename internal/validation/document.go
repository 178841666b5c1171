// Package validation holds the pure business-rule validators shared by
// the user and customer flows. Everything here is deterministic and
// free of I/O; uniqueness checks stay with the services that own the
// repositories.
package validation

import "strings"

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ValidCPF reports whether the value is a valid CPF. Formatting
// characters are stripped before the check digits are verified.
func ValidCPF(document string) bool {
	cpf := onlyDigits(document)
	if len(cpf) != 11 || allSame(cpf) {
		return false
	}

	sum := 0
	for i := 1; i <= 9; i++ {
		sum += int(cpf[i-1]-'0') * (11 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	if rest != int(cpf[9]-'0') {
		return false
	}

	sum = 0
	for i := 1; i <= 10; i++ {
		sum += int(cpf[i-1]-'0') * (12 - i)
	}
	rest = (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	return rest == int(cpf[10]-'0')
}

// ValidCNPJ reports whether the value is a valid CNPJ.
func ValidCNPJ(document string) bool {
	cnpj := onlyDigits(document)
	if len(cnpj) != 14 || allSame(cnpj) {
		return false
	}
	if !checkCNPJDigit(cnpj, 12) {
		return false
	}
	return checkCNPJDigit(cnpj, 13)
}

// checkCNPJDigit verifies the check digit at position pos (12 or 13)
// using the cyclic 2..9 weight table.
func checkCNPJDigit(cnpj string, pos int) bool {
	sum := 0
	weight := pos - 7
	for i := 0; i < pos; i++ {
		sum += int(cnpj[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	digit := 0
	if sum%11 >= 2 {
		digit = 11 - sum%11
	}
	return digit == int(cnpj[pos]-'0')
}

// ValidDocument accepts either document type; used for users, which may
// register as individuals (CPF) or companies (CNPJ).
func ValidDocument(document string) bool {
	return ValidCPF(document) || ValidCNPJ(document)
}
