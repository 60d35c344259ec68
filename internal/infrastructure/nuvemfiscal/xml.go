package nuvemfiscal

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/fiscal"
)

// ExtrairChaveAcesso lê o XML autorizado devolvido pelo gateway e extrai a
// chave de acesso do documento. Cobre os dois esquemas: NFC-e (atributo Id de
// infNFe, prefixado com "NFe") e NFS-e (infNFSe ou elemento chNFSe).
func ExtrairChaveAcesso(xmlBytes []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return "", fmt.Errorf("xml do documento fora do formato esperado: %w", err)
	}

	for _, caminho := range []string{"//infNFe", "//infNFSe"} {
		if el := doc.FindElement(caminho); el != nil {
			if id := el.SelectAttrValue("Id", ""); id != "" {
				return fiscal.SomenteDigitos(id), nil
			}
		}
	}
	for _, caminho := range []string{"//chNFe", "//chNFSe"} {
		if el := doc.FindElement(caminho); el != nil {
			if chave := strings.TrimSpace(el.Text()); chave != "" {
				return fiscal.SomenteDigitos(chave), nil
			}
		}
	}
	return "", fmt.Errorf("xml do documento sem chave de acesso")
}
