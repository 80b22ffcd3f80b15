package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Os testes de integração sobem um Postgres real via testcontainers.
// Rode com SEGURO_INTEGRATION_TESTS=1 (precisa de Docker disponível).
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if os.Getenv("SEGURO_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration tests; set SEGURO_INTEGRATION_TESTS=1 to run")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := newDBPool(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := os.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		content, err := os.ReadFile(filepath.Join("migrations", filename))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}

func novoProdutoTeste(nome string) *Produto {
	return NewProduto(uuid.New().String(), nome, decimal.NewFromFloat(100.50), 1, 10, 5, "Fornecedor Teste", true)
}

func TestPostgresProdutoRepositoryCRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresProdutoRepository(pool)

	produto := novoProdutoTeste("Notebook")
	require.NoError(t, repo.CreateProduto(ctx, produto))

	// leitura devolve os mesmos campos, inclusive o decimal
	lido, err := repo.GetProduto(ctx, produto.ID)
	require.NoError(t, err)
	assert.Equal(t, produto.ID, lido.ID)
	assert.Equal(t, "Notebook", lido.Nome)
	assert.True(t, produto.Valor.Equal(lido.Valor), "valor: want %s, got %s", produto.Valor, lido.Valor)
	assert.True(t, lido.PossuiGarantia)

	// update sobrescreve todos os campos
	lido.Nome = "Notebook Gamer"
	lido.Valor = decimal.NewFromFloat(250.75)
	lido.SaldoEmEstoque = 2
	require.NoError(t, repo.UpdateProduto(ctx, lido))

	atualizado, err := repo.GetProduto(ctx, produto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook Gamer", atualizado.Nome)
	assert.True(t, decimal.NewFromFloat(250.75).Equal(atualizado.Valor))
	assert.Equal(t, 2, atualizado.SaldoEmEstoque)

	// delete e 404 em seguida
	require.NoError(t, repo.DeleteProduto(ctx, produto.ID))

	_, err = repo.GetProduto(ctx, produto.ID)
	assert.ErrorIs(t, err, ErrProdutoNaoEncontrado)
	assert.ErrorIs(t, repo.DeleteProduto(ctx, produto.ID), ErrProdutoNaoEncontrado)
}

func TestPostgresProdutoRepositoryPaginacao(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresProdutoRepository(pool)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateProduto(ctx, novoProdutoTeste(fmt.Sprintf("Produto %d", i))))
	}

	pagina, err := repo.ListProdutos(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, pagina, 2)

	resto, err := repo.ListProdutos(ctx, 4, 50)
	require.NoError(t, err)
	assert.Len(t, resto, 1)

	ids, err := repo.ListProdutoIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 5)
}

func TestPostgresGarantiaRepositoryCRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresGarantiaRepository(pool)

	garantia := NewGarantia(uuid.New().String(), "Garantia estendida", decimal.NewFromFloat(99.90), 12)
	require.NoError(t, repo.CreateGarantia(ctx, garantia))

	lida, err := repo.GetGarantia(ctx, garantia.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, lida.Prazo)

	lida.Prazo = 180
	require.NoError(t, repo.UpdateGarantia(ctx, lida))

	atualizada, err := repo.GetGarantia(ctx, garantia.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, atualizada.Prazo)

	require.NoError(t, repo.DeleteGarantia(ctx, garantia.ID))
	_, err = repo.GetGarantia(ctx, garantia.ID)
	assert.ErrorIs(t, err, ErrGarantiaNaoEncontrada)
}

func TestPostgresVendaRepositoryCRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	produtos := NewPostgresProdutoRepository(pool)
	vendas := NewPostgresVendaRepository(pool)

	produto := novoProdutoTeste("Notebook")
	require.NoError(t, produtos.CreateProduto(ctx, produto))

	itens := []ItemVenda{
		NewItemVenda(uuid.New().String(), produto.ID, "garantia-a", 2, decimal.NewFromFloat(10.00), decimal.NewFromFloat(20.00)),
		NewItemVenda(uuid.New().String(), produto.ID, "garantia-b", 1, decimal.NewFromFloat(5.00), decimal.NewFromFloat(5.00)),
	}
	venda := NewVenda(uuid.New().String(), decimal.NewFromFloat(25.00), itens)
	require.NoError(t, vendas.CreateVenda(ctx, venda))

	// leitura devolve os itens na ordem de inserção
	lida, err := vendas.GetVenda(ctx, venda.ID)
	require.NoError(t, err)
	require.Len(t, lida.Itens, 2)
	assert.Equal(t, itens[0].ID, lida.Itens[0].ID)
	assert.Equal(t, itens[1].ID, lida.Itens[1].ID)
	assert.Equal(t, "garantia-a", lida.Itens[0].IDGarantia)
	assert.True(t, decimal.NewFromFloat(25.00).Equal(lida.ValorTotal))

	// update substitui a coleção inteira de itens
	novosItens := []ItemVenda{
		NewItemVenda(uuid.New().String(), produto.ID, "garantia-c", 3, decimal.NewFromFloat(7.00), decimal.NewFromFloat(21.00)),
	}
	lida.Itens = novosItens
	lida.ValorTotal = decimal.NewFromFloat(21.00)
	require.NoError(t, vendas.UpdateVenda(ctx, lida))

	atualizada, err := vendas.GetVenda(ctx, venda.ID)
	require.NoError(t, err)
	require.Len(t, atualizada.Itens, 1)
	assert.Equal(t, novosItens[0].ID, atualizada.Itens[0].ID)
	assert.Equal(t, "garantia-c", atualizada.Itens[0].IDGarantia)

	// os itens antigos não podem sobrar na tabela
	var sobras int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM item_vendas WHERE venda_id = $1", venda.ID).Scan(&sobras))
	assert.Equal(t, 1, sobras)

	// delete remove a venda e os itens em cascata
	require.NoError(t, vendas.DeleteVenda(ctx, venda.ID))
	_, err = vendas.GetVenda(ctx, venda.ID)
	assert.ErrorIs(t, err, ErrVendaNaoEncontrada)

	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM item_vendas WHERE venda_id = $1", venda.ID).Scan(&sobras))
	assert.Equal(t, 0, sobras)
}

func TestDeleteProdutoNaoAfetaVendas(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	produtos := NewPostgresProdutoRepository(pool)
	vendas := NewPostgresVendaRepository(pool)

	produto := novoProdutoTeste("Notebook")
	require.NoError(t, produtos.CreateProduto(ctx, produto))

	itens := []ItemVenda{
		NewItemVenda(uuid.New().String(), produto.ID, "garantia-a", 1, decimal.NewFromFloat(10.00), decimal.NewFromFloat(10.00)),
	}
	venda := NewVenda(uuid.New().String(), decimal.NewFromFloat(10.00), itens)
	require.NoError(t, vendas.CreateVenda(ctx, venda))

	// apagar o produto não pode apagar nem alterar a venda existente
	require.NoError(t, produtos.DeleteProduto(ctx, produto.ID))

	lida, err := vendas.GetVenda(ctx, venda.ID)
	require.NoError(t, err)
	require.Len(t, lida.Itens, 1)
	assert.Equal(t, produto.ID, lida.Itens[0].IDProduto)
}

func TestVendaUseCaseComBancoReal(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	produtos := NewPostgresProdutoRepository(pool)
	vendas := NewPostgresVendaRepository(pool)
	uc := NewVendaUseCase(vendas, produtos)

	produto := novoProdutoTeste("Notebook")
	require.NoError(t, produtos.CreateProduto(ctx, produto))

	_, err := uc.CreateVenda(ctx, VendaRequest{
		ValorTotal: decimal.NewFromFloat(10.00),
		Itens: []ItemVendaRequest{
			{IDProduto: "fantasma", IDGarantia: "g", Quantidade: 1, ValorUnitario: decimal.NewFromFloat(10.00), ValorTotal: decimal.NewFromFloat(10.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, "Produtos não cadastrados para os itens: fantasma", err.Error())

	venda, err := uc.CreateVenda(ctx, VendaRequest{
		ValorTotal: decimal.NewFromFloat(10.00),
		Itens: []ItemVendaRequest{
			{IDProduto: produto.ID, IDGarantia: "g", Quantidade: 1, ValorUnitario: decimal.NewFromFloat(10.00), ValorTotal: decimal.NewFromFloat(10.00)},
		},
	})
	require.NoError(t, err)

	lida, err := vendas.GetVenda(ctx, venda.ID)
	require.NoError(t, err)
	require.Len(t, lida.Itens, 1)
	assert.Equal(t, produto.ID, lida.Itens[0].IDProduto)
}
