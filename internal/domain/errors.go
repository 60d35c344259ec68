package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNaoEncontrado   = errors.New("recurso não encontrado")
	ErrEntradaInvalida = errors.New("entrada inválida")
	ErrDuplicado       = errors.New("recurso duplicado")
	ErrNaoAutorizado   = errors.New("não autorizado")
	ErrAcessoNegado    = errors.New("acesso negado")
	ErrConflito        = errors.New("conflito com o estado atual")

	// ErrConfiguracaoFiscal indica perfil fiscal ausente ou módulo desabilitado;
	// detectado antes de qualquer chamada de rede e nunca re-tentado.
	ErrConfiguracaoFiscal = errors.New("configuração fiscal ausente ou incompleta")

	// ErrPrazoCancelamento indica cancelamento fora da janela regulatória;
	// rejeitado localmente, o gateway nunca é contatado.
	ErrPrazoCancelamento = errors.New("prazo de cancelamento expirado")

	// ErrNotaNaoCancelavel indica que a nota não está em estado cancelável.
	ErrNotaNaoCancelavel = errors.New("nota não está autorizada, não pode ser cancelada")

	// ErrTransicaoInvalida indica tentativa de transição de status fora do ciclo
	// de vida permitido da nota fiscal.
	ErrTransicaoInvalida = errors.New("transição de status inválida")
)
