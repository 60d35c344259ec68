package fiscal

import (
	"fmt"
	"unicode"
)

// SomenteDigitos remove tudo que não for dígito (pontos, barras, traços de CNPJ/CPF).
func SomenteDigitos(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// ValidarCNPJ valida os dois dígitos verificadores do CNPJ (módulo 11).
// Aceita o CNPJ com ou sem máscara ("12.345.678/0001-95" ou "12345678000195").
func ValidarCNPJ(cnpj string) error {
	digits := SomenteDigitos(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("fiscal: CNPJ deve ter 14 dígitos, foram encontrados %d", len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("fiscal: CNPJ com dígitos repetidos é inválido")
	}
	d13 := digitoVerificadorCNPJ(digits[:12])
	if digits[12] != d13 {
		return fmt.Errorf("fiscal: primeiro dígito verificador do CNPJ inválido: esperado %c, recebido %c", d13, digits[12])
	}
	d14 := digitoVerificadorCNPJ(digits[:13])
	if digits[13] != d14 {
		return fmt.Errorf("fiscal: segundo dígito verificador do CNPJ inválido: esperado %c, recebido %c", d14, digits[13])
	}
	return nil
}

// ValidarCPF valida os dois dígitos verificadores do CPF (módulo 11).
func ValidarCPF(cpf string) error {
	digits := SomenteDigitos(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("fiscal: CPF deve ter 11 dígitos, foram encontrados %d", len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("fiscal: CPF com dígitos repetidos é inválido")
	}
	for _, n := range [2]int{9, 10} {
		var sum int
		for i := 0; i < n; i++ {
			sum += int(digits[i]-'0') * (n + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		if digits[n] != byte('0'+rest) {
			return fmt.Errorf("fiscal: dígito verificador do CPF inválido")
		}
	}
	return nil
}

// digitoVerificadorCNPJ calcula o dígito verificador para os primeiros 12 ou 13 dígitos.
// Pesos 2..9 aplicados da direita para a esquerda.
func digitoVerificadorCNPJ(base string) byte {
	weight := 2
	var sum int
	for i := len(base) - 1; i >= 0; i-- {
		sum += int(base[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
