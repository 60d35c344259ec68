package nuvemfiscal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErroGateway é a falha de transporte ou de protocolo ao falar com o gateway
// fiscal (resposta não-2xx). Carrega o código e a mensagem do corpo estruturado
// quando parseável, senão o corpo cru, para que o operador veja a causa exata.
type ErroGateway struct {
	StatusHTTP int
	Codigo     string
	Mensagem   string
	Corpo      string // corpo cru da resposta, para diagnóstico
}

func (e *ErroGateway) Error() string {
	if e.Mensagem != "" {
		if e.Codigo != "" {
			return fmt.Sprintf("gateway fiscal (HTTP %d) [%s]: %s", e.StatusHTTP, e.Codigo, e.Mensagem)
		}
		return fmt.Sprintf("gateway fiscal (HTTP %d): %s", e.StatusHTTP, e.Mensagem)
	}
	return fmt.Sprintf("gateway fiscal (HTTP %d): %s", e.StatusHTTP, e.Corpo)
}

// Conflito indica que o recurso já existe no gateway (409); o registrador de
// empresa usa isso para trocar o create por update.
func (e *ErroGateway) Conflito() bool { return e.StatusHTTP == http.StatusConflict }

// NaoEncontrado indica 404; a configuração NFS-e usa isso para trocar o update
// por create.
func (e *ErroGateway) NaoEncontrado() bool { return e.StatusHTTP == http.StatusNotFound }

// corpoErro é o envelope de erro estruturado do gateway.
type corpoErro struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// novoErroGateway monta o ErroGateway a partir da resposta não-2xx. Corpo fora
// do formato esperado não derruba o chamador: fica retido cru.
func novoErroGateway(statusHTTP int, corpo []byte) *ErroGateway {
	e := &ErroGateway{StatusHTTP: statusHTTP, Corpo: string(corpo)}
	var parsed corpoErro
	if err := json.Unmarshal(corpo, &parsed); err == nil {
		e.Codigo = parsed.Error.Code
		e.Mensagem = parsed.Error.Message
	}
	return e
}
