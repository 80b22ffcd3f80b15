package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Erros de regra de negócio da venda. As mensagens são contrato da API e
// vão direto para o corpo da resposta.
var (
	ErrListaItensVazia = errors.New("Lista de itens vazia")
	ErrItemSemProduto  = errors.New("ID de produto não informado para algum item")
)

// ErrProdutosNaoCadastrados enumera, na ordem de entrada, os IDs de produto
// referenciados pelos itens e ausentes do cadastro.
type ErrProdutosNaoCadastrados struct {
	IDs []string
}

func (e *ErrProdutosNaoCadastrados) Error() string {
	return "Produtos não cadastrados para os itens: " + strings.Join(e.IDs, ", ")
}

// isVendaValidationError indica se o erro é de validação de negócio da venda
func isVendaValidationError(err error) bool {
	var errProdutos *ErrProdutosNaoCadastrados
	return errors.Is(err, ErrListaItensVazia) ||
		errors.Is(err, ErrItemSemProduto) ||
		errors.As(err, &errProdutos)
}

// isEmptyID trata tanto a string vazia quanto o UUID zero como ausência de ID
func isEmptyID(id string) bool {
	return id == "" || id == uuid.Nil.String()
}

// ProdutoUseCase contém a lógica de negócio dos produtos
type ProdutoUseCase struct {
	repository ProdutoRepository
}

// NewProdutoUseCase cria uma nova instância de ProdutoUseCase
func NewProdutoUseCase(repository ProdutoRepository) *ProdutoUseCase {
	return &ProdutoUseCase{repository: repository}
}

// CreateProduto cria um novo produto com ID gerado pelo sistema
func (uc *ProdutoUseCase) CreateProduto(ctx context.Context, req ProdutoRequest) (*Produto, error) {
	produto := NewProduto(uuid.New().String(), req.Nome, req.Valor, req.EstoqueMinimo,
		req.EstoqueMaximo, req.SaldoEmEstoque, req.Fornecedor, req.PossuiGarantia)

	if err := uc.repository.CreateProduto(ctx, produto); err != nil {
		return nil, fmt.Errorf("failed to create produto: %w", err)
	}

	log.Printf("✅ Produto created: %s", produto.ID)
	return produto, nil
}

// ListProdutos retorna os produtos paginados por skip/take
func (uc *ProdutoUseCase) ListProdutos(ctx context.Context, skip, take int) ([]Produto, error) {
	produtos, err := uc.repository.ListProdutos(ctx, skip, take)
	if err != nil {
		return nil, fmt.Errorf("failed to list produtos: %w", err)
	}
	return produtos, nil
}

// GetProduto busca um produto pelo ID
func (uc *ProdutoUseCase) GetProduto(ctx context.Context, id string) (*Produto, error) {
	return uc.repository.GetProduto(ctx, id)
}

// UpdateProduto sobrescreve todos os campos de um produto existente
func (uc *ProdutoUseCase) UpdateProduto(ctx context.Context, id string, req ProdutoRequest) (*Produto, error) {
	produto, err := uc.repository.GetProduto(ctx, id)
	if err != nil {
		return nil, err
	}

	produto.Nome = req.Nome
	produto.Valor = req.Valor
	produto.EstoqueMinimo = req.EstoqueMinimo
	produto.EstoqueMaximo = req.EstoqueMaximo
	produto.SaldoEmEstoque = req.SaldoEmEstoque
	produto.Fornecedor = req.Fornecedor
	produto.PossuiGarantia = req.PossuiGarantia

	if err := uc.repository.UpdateProduto(ctx, produto); err != nil {
		return nil, err
	}

	return produto, nil
}

// DeleteProduto remove um produto pelo ID
func (uc *ProdutoUseCase) DeleteProduto(ctx context.Context, id string) error {
	return uc.repository.DeleteProduto(ctx, id)
}

// GarantiaUseCase contém a lógica de negócio das garantias
type GarantiaUseCase struct {
	repository GarantiaRepository
}

// NewGarantiaUseCase cria uma nova instância de GarantiaUseCase
func NewGarantiaUseCase(repository GarantiaRepository) *GarantiaUseCase {
	return &GarantiaUseCase{repository: repository}
}

// CreateGarantia cria uma nova garantia com ID gerado pelo sistema
func (uc *GarantiaUseCase) CreateGarantia(ctx context.Context, req GarantiaCreateRequest) (*Garantia, error) {
	garantia := NewGarantia(uuid.New().String(), req.Nome, req.Valor, req.Prazo)

	if err := uc.repository.CreateGarantia(ctx, garantia); err != nil {
		return nil, fmt.Errorf("failed to create garantia: %w", err)
	}

	log.Printf("✅ Garantia created: %s", garantia.ID)
	return garantia, nil
}

// ListGarantias retorna as garantias paginadas por skip/take
func (uc *GarantiaUseCase) ListGarantias(ctx context.Context, skip, take int) ([]Garantia, error) {
	garantias, err := uc.repository.ListGarantias(ctx, skip, take)
	if err != nil {
		return nil, fmt.Errorf("failed to list garantias: %w", err)
	}
	return garantias, nil
}

// GetGarantia busca uma garantia pelo ID
func (uc *GarantiaUseCase) GetGarantia(ctx context.Context, id string) (*Garantia, error) {
	return uc.repository.GetGarantia(ctx, id)
}

// UpdateGarantia sobrescreve todos os campos de uma garantia existente
func (uc *GarantiaUseCase) UpdateGarantia(ctx context.Context, id string, req GarantiaUpdateRequest) (*Garantia, error) {
	garantia, err := uc.repository.GetGarantia(ctx, id)
	if err != nil {
		return nil, err
	}

	garantia.Nome = req.Nome
	garantia.Valor = req.Valor
	garantia.Prazo = req.Prazo

	if err := uc.repository.UpdateGarantia(ctx, garantia); err != nil {
		return nil, err
	}

	return garantia, nil
}

// DeleteGarantia remove uma garantia pelo ID
func (uc *GarantiaUseCase) DeleteGarantia(ctx context.Context, id string) error {
	return uc.repository.DeleteGarantia(ctx, id)
}

// VendaUseCase contém a lógica de negócio das vendas
type VendaUseCase struct {
	vendas   VendaRepository
	produtos ProdutoRepository
}

// NewVendaUseCase cria uma nova instância de VendaUseCase
func NewVendaUseCase(vendas VendaRepository, produtos ProdutoRepository) *VendaUseCase {
	return &VendaUseCase{
		vendas:   vendas,
		produtos: produtos,
	}
}

// CreateVenda valida os itens e cria a venda com IDs gerados pelo sistema,
// inclusive para cada item (IDs informados pelo cliente são ignorados)
func (uc *VendaUseCase) CreateVenda(ctx context.Context, req VendaRequest) (*Venda, error) {
	if err := uc.validateItens(ctx, req.Itens); err != nil {
		return nil, err
	}

	venda := NewVenda(uuid.New().String(), req.ValorTotal, buildItens(req.Itens))
	if err := uc.vendas.CreateVenda(ctx, venda); err != nil {
		return nil, fmt.Errorf("failed to create venda: %w", err)
	}

	log.Printf("✅ Venda created: %s (%d itens)", venda.ID, len(venda.Itens))
	return venda, nil
}

// ListVendas retorna as vendas paginadas por skip/take
func (uc *VendaUseCase) ListVendas(ctx context.Context, skip, take int) ([]Venda, error) {
	vendas, err := uc.vendas.ListVendas(ctx, skip, take)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendas: %w", err)
	}
	return vendas, nil
}

// GetVenda busca uma venda pelo ID
func (uc *VendaUseCase) GetVenda(ctx context.Context, id string) (*Venda, error) {
	return uc.vendas.GetVenda(ctx, id)
}

// UpdateVenda valida os itens e substitui por inteiro a coleção de itens e o
// valor total de uma venda existente. Cada item recebe um ID novo.
func (uc *VendaUseCase) UpdateVenda(ctx context.Context, id string, req VendaRequest) (*Venda, error) {
	venda, err := uc.vendas.GetVenda(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.validateItens(ctx, req.Itens); err != nil {
		return nil, err
	}

	venda.Itens = buildItens(req.Itens)
	venda.ValorTotal = req.ValorTotal

	if err := uc.vendas.UpdateVenda(ctx, venda); err != nil {
		return nil, err
	}

	log.Printf("✅ Venda updated: %s (%d itens)", venda.ID, len(venda.Itens))
	return venda, nil
}

// DeleteVenda remove uma venda e, por posse, seus itens
func (uc *VendaUseCase) DeleteVenda(ctx context.Context, id string) error {
	return uc.vendas.DeleteVenda(ctx, id)
}

// validateItens aplica as três verificações de negócio, nesta ordem e com
// curto-circuito: lista vazia, item sem produto, produto não cadastrado.
// A referência de garantia dos itens não é conferida.
func (uc *VendaUseCase) validateItens(ctx context.Context, itens []ItemVendaRequest) error {
	if len(itens) == 0 {
		return ErrListaItensVazia
	}

	for _, item := range itens {
		if isEmptyID(item.IDProduto) {
			return ErrItemSemProduto
		}
	}

	ids, err := uc.produtos.ListProdutoIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list produto ids: %w", err)
	}

	cadastrados := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		cadastrados[id] = struct{}{}
	}

	faltantes := []string{}
	for _, item := range itens {
		if _, ok := cadastrados[item.IDProduto]; !ok {
			faltantes = append(faltantes, item.IDProduto)
		}
	}
	if len(faltantes) > 0 {
		return &ErrProdutosNaoCadastrados{IDs: faltantes}
	}

	return nil
}

// buildItens mapeia os itens da requisição para entidades com IDs novos
func buildItens(reqItens []ItemVendaRequest) []ItemVenda {
	itens := make([]ItemVenda, 0, len(reqItens))
	for _, item := range reqItens {
		itens = append(itens, NewItemVenda(uuid.New().String(), item.IDProduto, item.IDGarantia,
			item.Quantidade, item.ValorUnitario, item.ValorTotal))
	}
	return itens
}
