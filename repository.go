package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProdutoNaoEncontrado  = errors.New("produto não encontrado")
	ErrGarantiaNaoEncontrada = errors.New("garantia não encontrada")
	ErrVendaNaoEncontrada    = errors.New("venda não encontrada")
)

// ProdutoRepository define as operações de banco de dados de produtos
type ProdutoRepository interface {
	// CreateProduto insere um novo produto
	CreateProduto(ctx context.Context, produto *Produto) error

	// ListProdutos retorna produtos em ordem de criação, com paginação skip/take
	ListProdutos(ctx context.Context, skip, take int) ([]Produto, error)

	// GetProduto busca um produto pelo ID
	GetProduto(ctx context.Context, id string) (*Produto, error)

	// UpdateProduto sobrescreve todos os campos de um produto existente
	UpdateProduto(ctx context.Context, produto *Produto) error

	// DeleteProduto remove um produto pelo ID
	DeleteProduto(ctx context.Context, id string) error

	// ListProdutoIDs retorna os IDs de todos os produtos cadastrados
	ListProdutoIDs(ctx context.Context) ([]string, error)
}

// PostgresProdutoRepository implementa ProdutoRepository usando PostgreSQL
type PostgresProdutoRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProdutoRepository cria uma nova instância de PostgresProdutoRepository
func NewPostgresProdutoRepository(db *pgxpool.Pool) ProdutoRepository {
	return &PostgresProdutoRepository{db: db}
}

func (r *PostgresProdutoRepository) CreateProduto(ctx context.Context, produto *Produto) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO produtos (id, nome, valor, estoque_minimo, estoque_maximo, saldo_em_estoque, fornecedor, possui_garantia, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, produto.ID, produto.Nome, produto.Valor, produto.EstoqueMinimo, produto.EstoqueMaximo,
		produto.SaldoEmEstoque, produto.Fornecedor, produto.PossuiGarantia, produto.CreatedAt, produto.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert produto: %w", err)
	}
	return nil
}

func (r *PostgresProdutoRepository) ListProdutos(ctx context.Context, skip, take int) ([]Produto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, nome, valor, estoque_minimo, estoque_maximo, saldo_em_estoque, fornecedor, possui_garantia, created_at, updated_at
		FROM produtos
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, take, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list produtos: %w", err)
	}
	defer rows.Close()

	produtos := []Produto{}
	for rows.Next() {
		var produto Produto
		err := rows.Scan(&produto.ID, &produto.Nome, &produto.Valor, &produto.EstoqueMinimo,
			&produto.EstoqueMaximo, &produto.SaldoEmEstoque, &produto.Fornecedor,
			&produto.PossuiGarantia, &produto.CreatedAt, &produto.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan produto: %w", err)
		}
		produtos = append(produtos, produto)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read produtos: %w", err)
	}

	return produtos, nil
}

func (r *PostgresProdutoRepository) GetProduto(ctx context.Context, id string) (*Produto, error) {
	var produto Produto
	err := r.db.QueryRow(ctx, `
		SELECT id, nome, valor, estoque_minimo, estoque_maximo, saldo_em_estoque, fornecedor, possui_garantia, created_at, updated_at
		FROM produtos WHERE id = $1
	`, id).Scan(&produto.ID, &produto.Nome, &produto.Valor, &produto.EstoqueMinimo,
		&produto.EstoqueMaximo, &produto.SaldoEmEstoque, &produto.Fornecedor,
		&produto.PossuiGarantia, &produto.CreatedAt, &produto.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProdutoNaoEncontrado
		}
		return nil, fmt.Errorf("failed to get produto: %w", err)
	}
	return &produto, nil
}

func (r *PostgresProdutoRepository) UpdateProduto(ctx context.Context, produto *Produto) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE produtos
		SET nome = $1, valor = $2, estoque_minimo = $3, estoque_maximo = $4,
			saldo_em_estoque = $5, fornecedor = $6, possui_garantia = $7, updated_at = NOW()
		WHERE id = $8
	`, produto.Nome, produto.Valor, produto.EstoqueMinimo, produto.EstoqueMaximo,
		produto.SaldoEmEstoque, produto.Fornecedor, produto.PossuiGarantia, produto.ID)
	if err != nil {
		return fmt.Errorf("failed to update produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProdutoNaoEncontrado
	}
	return nil
}

func (r *PostgresProdutoRepository) DeleteProduto(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProdutoNaoEncontrado
	}
	return nil
}

func (r *PostgresProdutoRepository) ListProdutoIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM produtos`)
	if err != nil {
		return nil, fmt.Errorf("failed to list produto ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan produto id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read produto ids: %w", err)
	}

	return ids, nil
}

// GarantiaRepository define as operações de banco de dados de garantias
type GarantiaRepository interface {
	// CreateGarantia insere uma nova garantia
	CreateGarantia(ctx context.Context, garantia *Garantia) error

	// ListGarantias retorna garantias em ordem de criação, com paginação skip/take
	ListGarantias(ctx context.Context, skip, take int) ([]Garantia, error)

	// GetGarantia busca uma garantia pelo ID
	GetGarantia(ctx context.Context, id string) (*Garantia, error)

	// UpdateGarantia sobrescreve todos os campos de uma garantia existente
	UpdateGarantia(ctx context.Context, garantia *Garantia) error

	// DeleteGarantia remove uma garantia pelo ID
	DeleteGarantia(ctx context.Context, id string) error
}

// PostgresGarantiaRepository implementa GarantiaRepository usando PostgreSQL
type PostgresGarantiaRepository struct {
	db *pgxpool.Pool
}

// NewPostgresGarantiaRepository cria uma nova instância de PostgresGarantiaRepository
func NewPostgresGarantiaRepository(db *pgxpool.Pool) GarantiaRepository {
	return &PostgresGarantiaRepository{db: db}
}

func (r *PostgresGarantiaRepository) CreateGarantia(ctx context.Context, garantia *Garantia) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO garantias (id, nome, valor, prazo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, garantia.ID, garantia.Nome, garantia.Valor, garantia.Prazo, garantia.CreatedAt, garantia.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert garantia: %w", err)
	}
	return nil
}

func (r *PostgresGarantiaRepository) ListGarantias(ctx context.Context, skip, take int) ([]Garantia, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, nome, valor, prazo, created_at, updated_at
		FROM garantias
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, take, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list garantias: %w", err)
	}
	defer rows.Close()

	garantias := []Garantia{}
	for rows.Next() {
		var garantia Garantia
		err := rows.Scan(&garantia.ID, &garantia.Nome, &garantia.Valor, &garantia.Prazo,
			&garantia.CreatedAt, &garantia.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan garantia: %w", err)
		}
		garantias = append(garantias, garantia)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read garantias: %w", err)
	}

	return garantias, nil
}

func (r *PostgresGarantiaRepository) GetGarantia(ctx context.Context, id string) (*Garantia, error) {
	var garantia Garantia
	err := r.db.QueryRow(ctx, `
		SELECT id, nome, valor, prazo, created_at, updated_at
		FROM garantias WHERE id = $1
	`, id).Scan(&garantia.ID, &garantia.Nome, &garantia.Valor, &garantia.Prazo,
		&garantia.CreatedAt, &garantia.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGarantiaNaoEncontrada
		}
		return nil, fmt.Errorf("failed to get garantia: %w", err)
	}
	return &garantia, nil
}

func (r *PostgresGarantiaRepository) UpdateGarantia(ctx context.Context, garantia *Garantia) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE garantias
		SET nome = $1, valor = $2, prazo = $3, updated_at = NOW()
		WHERE id = $4
	`, garantia.Nome, garantia.Valor, garantia.Prazo, garantia.ID)
	if err != nil {
		return fmt.Errorf("failed to update garantia: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGarantiaNaoEncontrada
	}
	return nil
}

func (r *PostgresGarantiaRepository) DeleteGarantia(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM garantias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete garantia: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGarantiaNaoEncontrada
	}
	return nil
}

// VendaRepository define as operações de banco de dados de vendas.
// Os itens são persistidos junto com a venda e nunca fora dela.
type VendaRepository interface {
	// CreateVenda insere uma venda e seus itens na mesma transação
	CreateVenda(ctx context.Context, venda *Venda) error

	// ListVendas retorna vendas em ordem de criação (com itens), com paginação skip/take
	ListVendas(ctx context.Context, skip, take int) ([]Venda, error)

	// GetVenda busca uma venda pelo ID, com seus itens em ordem de inserção
	GetVenda(ctx context.Context, id string) (*Venda, error)

	// UpdateVenda sobrescreve o valor total e substitui todos os itens na mesma transação
	UpdateVenda(ctx context.Context, venda *Venda) error

	// DeleteVenda remove uma venda; os itens caem junto por cascata
	DeleteVenda(ctx context.Context, id string) error
}

// PostgresVendaRepository implementa VendaRepository usando PostgreSQL
type PostgresVendaRepository struct {
	db *pgxpool.Pool
}

// NewPostgresVendaRepository cria uma nova instância de PostgresVendaRepository
func NewPostgresVendaRepository(db *pgxpool.Pool) VendaRepository {
	return &PostgresVendaRepository{db: db}
}

func (r *PostgresVendaRepository) CreateVenda(ctx context.Context, venda *Venda) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO vendas (id, valor_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, venda.ID, venda.ValorTotal, venda.CreatedAt, venda.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert venda: %w", err)
	}

	if err := insertItens(ctx, tx, venda.ID, venda.Itens); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit venda: %w", err)
	}
	return nil
}

func (r *PostgresVendaRepository) ListVendas(ctx context.Context, skip, take int) ([]Venda, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, valor_total, created_at, updated_at
		FROM vendas
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, take, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendas: %w", err)
	}
	defer rows.Close()

	vendas := []Venda{}
	for rows.Next() {
		var venda Venda
		err := rows.Scan(&venda.ID, &venda.ValorTotal, &venda.CreatedAt, &venda.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venda: %w", err)
		}
		vendas = append(vendas, venda)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vendas: %w", err)
	}

	for i := range vendas {
		itens, err := r.listItens(ctx, vendas[i].ID)
		if err != nil {
			return nil, err
		}
		vendas[i].Itens = itens
	}

	return vendas, nil
}

func (r *PostgresVendaRepository) GetVenda(ctx context.Context, id string) (*Venda, error) {
	var venda Venda
	err := r.db.QueryRow(ctx, `
		SELECT id, valor_total, created_at, updated_at
		FROM vendas WHERE id = $1
	`, id).Scan(&venda.ID, &venda.ValorTotal, &venda.CreatedAt, &venda.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendaNaoEncontrada
		}
		return nil, fmt.Errorf("failed to get venda: %w", err)
	}

	itens, err := r.listItens(ctx, venda.ID)
	if err != nil {
		return nil, err
	}
	venda.Itens = itens

	return &venda, nil
}

func (r *PostgresVendaRepository) UpdateVenda(ctx context.Context, venda *Venda) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE vendas
		SET valor_total = $1, updated_at = NOW()
		WHERE id = $2
	`, venda.ValorTotal, venda.ID)
	if err != nil {
		return fmt.Errorf("failed to update venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVendaNaoEncontrada
	}

	// Substituição integral: os itens antigos são descartados
	_, err = tx.Exec(ctx, `DELETE FROM item_vendas WHERE venda_id = $1`, venda.ID)
	if err != nil {
		return fmt.Errorf("failed to delete itens da venda: %w", err)
	}

	if err := insertItens(ctx, tx, venda.ID, venda.Itens); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit venda: %w", err)
	}
	return nil
}

func (r *PostgresVendaRepository) DeleteVenda(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVendaNaoEncontrada
	}
	return nil
}

func (r *PostgresVendaRepository) listItens(ctx context.Context, vendaID string) ([]ItemVenda, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, id_produto, id_garantia, quantidade, valor_unitario, valor_total
		FROM item_vendas
		WHERE venda_id = $1
		ORDER BY posicao
	`, vendaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itens da venda: %w", err)
	}
	defer rows.Close()

	itens := []ItemVenda{}
	for rows.Next() {
		var item ItemVenda
		err := rows.Scan(&item.ID, &item.IDProduto, &item.IDGarantia, &item.Quantidade,
			&item.ValorUnitario, &item.ValorTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item da venda: %w", err)
		}
		itens = append(itens, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read itens da venda: %w", err)
	}

	return itens, nil
}

// insertItens grava os itens preservando a posição de entrada, que define a
// ordem de leitura.
func insertItens(ctx context.Context, tx pgx.Tx, vendaID string, itens []ItemVenda) error {
	for posicao, item := range itens {
		_, err := tx.Exec(ctx, `
			INSERT INTO item_vendas (id, venda_id, id_produto, id_garantia, quantidade, valor_unitario, valor_total, posicao)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, vendaID, item.IDProduto, item.IDGarantia, item.Quantidade,
			item.ValorUnitario, item.ValorTotal, posicao)
		if err != nil {
			return fmt.Errorf("failed to insert item da venda: %w", err)
		}
	}
	return nil
}
