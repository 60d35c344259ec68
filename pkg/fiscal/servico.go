package fiscal

import "strings"

// CodigoMunicipioSaoPaulo é o código IBGE do município de São Paulo, único
// município com regras próprias conhecidas até hoje (ver regrasMunicipio).
const CodigoMunicipioSaoPaulo = "3550308"

// regraMunicipio descreve as particularidades de um município na emissão de NFS-e.
// A tabela existe porque a prefeitura de cada município define sua própria
// convenção para o código de tributação; novos municípios entram aqui.
type regraMunicipio struct {
	// colapsaCodigoNacional indica que o código nacional também usa a forma
	// de seis dígitos, em vez da forma pontuada "NN.NN" do caso genérico.
	colapsaCodigoNacional bool
	// codigoLocalidade substitui o código IBGE quando o identificador do
	// município no gateway fiscal difere do identificador cívico.
	codigoLocalidade string
}

var regrasMunicipio = map[string]regraMunicipio{
	// São Paulo: código nacional e municipal idênticos (seis dígitos) e
	// localidade do gateway pelo código TOM/SIAFI, não pelo IBGE.
	CodigoMunicipioSaoPaulo: {
		colapsaCodigoNacional: true,
		codigoLocalidade:      "7107",
	},
}

// NormalizarCodigoServico reduz o código de serviço (LC 116, ex.: "14.01") às
// duas representações exigidas pelo gateway: o código de tributação nacional e
// o código de tributação municipal. A regra não é uniforme entre municípios:
//
//	genérico:   nacional "14.01" (pontuado), municipal "140101" (seis dígitos)
//	São Paulo:  nacional "140101", municipal "140101"
func NormalizarCodigoServico(codigoMunicipio, codigoServico string) (nacional, municipal string) {
	seis := codigoSeisDigitos(codigoServico)
	if regrasMunicipio[SomenteDigitos(codigoMunicipio)].colapsaCodigoNacional {
		return seis, seis
	}
	return codigoPontuado(codigoServico), seis
}

// CodigoLocalidade devolve o identificador do município aceito pelo gateway
// fiscal: o código IBGE, salvo override na tabela de regras.
func CodigoLocalidade(codigoMunicipio string) string {
	ibge := SomenteDigitos(codigoMunicipio)
	if r, ok := regrasMunicipio[ibge]; ok && r.codigoLocalidade != "" {
		return r.codigoLocalidade
	}
	return ibge
}

// codigoSeisDigitos normaliza para seis dígitos: trunca códigos longos e
// completa códigos de item ("1401") com o subitem padrão "01".
func codigoSeisDigitos(codigo string) string {
	digits := SomenteDigitos(codigo)
	if len(digits) >= 6 {
		return digits[:6]
	}
	var b strings.Builder
	b.WriteString(digits)
	for b.Len() < 6 {
		b.WriteString("01")
	}
	return b.String()[:6]
}

// codigoPontuado devolve a forma "NN.NN" usada no campo nacional do caso
// genérico. Códigos com menos de quatro dígitos voltam como chegaram.
func codigoPontuado(codigo string) string {
	digits := SomenteDigitos(codigo)
	if len(digits) < 4 {
		return digits
	}
	return digits[:2] + "." + digits[2:4]
}
