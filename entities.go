package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um produto cadastrado no sistema
type Produto struct {
	ID             string          `json:"id" db:"id"`
	Nome           string          `json:"nome" db:"nome"`
	Valor          decimal.Decimal `json:"valor" db:"valor"`
	EstoqueMinimo  int             `json:"estoque_minimo" db:"estoque_minimo"`
	EstoqueMaximo  int             `json:"estoque_maximo" db:"estoque_maximo"`
	SaldoEmEstoque int             `json:"saldo_em_estoque" db:"saldo_em_estoque"`
	Fornecedor     string          `json:"fornecedor" db:"fornecedor"`
	PossuiGarantia bool            `json:"possui_garantia" db:"possui_garantia"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduto cria uma nova instância de Produto
func NewProduto(id, nome string, valor decimal.Decimal, estoqueMinimo, estoqueMaximo, saldoEmEstoque int, fornecedor string, possuiGarantia bool) *Produto {
	return &Produto{
		ID:             id,
		Nome:           nome,
		Valor:          valor,
		EstoqueMinimo:  estoqueMinimo,
		EstoqueMaximo:  estoqueMaximo,
		SaldoEmEstoque: saldoEmEstoque,
		Fornecedor:     fornecedor,
		PossuiGarantia: possuiGarantia,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// Garantia representa uma garantia comercializável
type Garantia struct {
	ID        string          `json:"id" db:"id"`
	Nome      string          `json:"nome" db:"nome"`
	Valor     decimal.Decimal `json:"valor" db:"valor"`
	Prazo     int             `json:"prazo" db:"prazo"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// NewGarantia cria uma nova instância de Garantia
func NewGarantia(id, nome string, valor decimal.Decimal, prazo int) *Garantia {
	return &Garantia{
		ID:        id,
		Nome:      nome,
		Valor:     valor,
		Prazo:     prazo,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Venda representa uma venda com sua coleção de itens.
// Os itens pertencem exclusivamente à venda: nunca são criados, consultados
// ou removidos fora dela, e são substituídos por inteiro na atualização.
type Venda struct {
	ID         string          `json:"id" db:"id"`
	Itens      []ItemVenda     `json:"itens"`
	ValorTotal decimal.Decimal `json:"valor_total" db:"valor_total"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// NewVenda cria uma nova instância de Venda
func NewVenda(id string, valorTotal decimal.Decimal, itens []ItemVenda) *Venda {
	return &Venda{
		ID:         id,
		Itens:      itens,
		ValorTotal: valorTotal,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// ItemVenda representa uma linha de uma venda. O valor total da linha é
// informado pelo cliente e não é derivado de quantidade x valor unitário.
type ItemVenda struct {
	ID            string          `json:"id" db:"id"`
	IDProduto     string          `json:"id_produto" db:"id_produto"`
	IDGarantia    string          `json:"id_garantia" db:"id_garantia"`
	Quantidade    int             `json:"quantidade" db:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario" db:"valor_unitario"`
	ValorTotal    decimal.Decimal `json:"valor_total" db:"valor_total"`
}

// NewItemVenda cria uma nova instância de ItemVenda
func NewItemVenda(id, idProduto, idGarantia string, quantidade int, valorUnitario, valorTotal decimal.Decimal) ItemVenda {
	return ItemVenda{
		ID:            id,
		IDProduto:     idProduto,
		IDGarantia:    idGarantia,
		Quantidade:    quantidade,
		ValorUnitario: valorUnitario,
		ValorTotal:    valorTotal,
	}
}
