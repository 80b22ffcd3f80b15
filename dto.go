package main

import "github.com/shopspring/decimal"

// ProdutoRequest representa a requisição para criar ou atualizar um produto.
// A atualização sobrescreve todos os campos, sem merge parcial.
type ProdutoRequest struct {
	Nome           string          `json:"nome" binding:"required,max=100"`
	Valor          decimal.Decimal `json:"valor" binding:"required,gt=0"`
	EstoqueMinimo  int             `json:"estoque_minimo" binding:"min=0"`
	EstoqueMaximo  int             `json:"estoque_maximo" binding:"min=0,gtefield=EstoqueMinimo"`
	SaldoEmEstoque int             `json:"saldo_em_estoque" binding:"min=0"`
	Fornecedor     string          `json:"fornecedor" binding:"required,max=50"`
	PossuiGarantia bool            `json:"possui_garantia"`
}

// ProdutoResponse representa um produto na resposta da API
type ProdutoResponse struct {
	ID             string          `json:"id"`
	Nome           string          `json:"nome"`
	Valor          decimal.Decimal `json:"valor"`
	EstoqueMinimo  int             `json:"estoque_minimo"`
	EstoqueMaximo  int             `json:"estoque_maximo"`
	SaldoEmEstoque int             `json:"saldo_em_estoque"`
	Fornecedor     string          `json:"fornecedor"`
	PossuiGarantia bool            `json:"possui_garantia"`
}

func toProdutoResponse(produto *Produto) ProdutoResponse {
	return ProdutoResponse{
		ID:             produto.ID,
		Nome:           produto.Nome,
		Valor:          produto.Valor,
		EstoqueMinimo:  produto.EstoqueMinimo,
		EstoqueMaximo:  produto.EstoqueMaximo,
		SaldoEmEstoque: produto.SaldoEmEstoque,
		Fornecedor:     produto.Fornecedor,
		PossuiGarantia: produto.PossuiGarantia,
	}
}

// GarantiaCreateRequest representa a requisição para criar uma garantia.
// O prazo de criação é limitado por GarantiaPrazoMaximoCriacao.
type GarantiaCreateRequest struct {
	Nome  string          `json:"nome" binding:"required,max=100"`
	Valor decimal.Decimal `json:"valor" binding:"required,gt=0"`
	Prazo int             `json:"prazo" binding:"required,prazo_criacao"`
}

// GarantiaUpdateRequest representa a requisição para atualizar uma garantia.
// O prazo de atualização é limitado por GarantiaPrazoMaximoAtualizacao, que
// diverge do limite de criação; os dois limites convivem de propósito.
type GarantiaUpdateRequest struct {
	Nome  string          `json:"nome" binding:"required,max=100"`
	Valor decimal.Decimal `json:"valor" binding:"required,gt=0"`
	Prazo int             `json:"prazo" binding:"required,prazo_atualizacao"`
}

// GarantiaResponse representa uma garantia na resposta da API
type GarantiaResponse struct {
	ID    string          `json:"id"`
	Nome  string          `json:"nome"`
	Valor decimal.Decimal `json:"valor"`
	Prazo int             `json:"prazo"`
}

func toGarantiaResponse(garantia *Garantia) GarantiaResponse {
	return GarantiaResponse{
		ID:    garantia.ID,
		Nome:  garantia.Nome,
		Valor: garantia.Valor,
		Prazo: garantia.Prazo,
	}
}

// ItemVendaRequest representa um item na requisição de venda. O payload de
// venda não passa por validação de campos: quem rejeita a requisição são as
// regras de negócio da operação, com as mensagens delas. O ID da garantia é
// carregado mas não é conferido contra a tabela de garantias.
type ItemVendaRequest struct {
	IDProduto     string          `json:"id_produto"`
	IDGarantia    string          `json:"id_garantia"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
}

// VendaRequest representa a requisição para criar ou atualizar uma venda
type VendaRequest struct {
	Itens      []ItemVendaRequest `json:"itens"`
	ValorTotal decimal.Decimal    `json:"valor_total"`
}

// ItemVendaResponse representa um item de venda na resposta da API
type ItemVendaResponse struct {
	ID            string          `json:"id"`
	IDProduto     string          `json:"id_produto"`
	IDGarantia    string          `json:"id_garantia"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
}

// VendaResponse representa uma venda na resposta da API
type VendaResponse struct {
	ID         string              `json:"id"`
	Itens      []ItemVendaResponse `json:"itens"`
	ValorTotal decimal.Decimal     `json:"valor_total"`
}

func toVendaResponse(venda *Venda) VendaResponse {
	itens := make([]ItemVendaResponse, 0, len(venda.Itens))
	for _, item := range venda.Itens {
		itens = append(itens, ItemVendaResponse{
			ID:            item.ID,
			IDProduto:     item.IDProduto,
			IDGarantia:    item.IDGarantia,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
			ValorTotal:    item.ValorTotal,
		})
	}

	return VendaResponse{
		ID:         venda.ID,
		Itens:      itens,
		ValorTotal: venda.ValorTotal,
	}
}
