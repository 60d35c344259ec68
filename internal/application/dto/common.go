package dto

// ErrorResponse resposta padrão de erro da API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse metadados de paginação.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
