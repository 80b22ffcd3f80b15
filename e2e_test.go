package main

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Os testes de ponta a ponta rodam contra uma instância já de pé da API.
// Aponte SEGURO_API_URL para ela (ex: http://localhost:8080).
func newAPIClient(t *testing.T) *resty.Client {
	baseURL := os.Getenv("SEGURO_API_URL")
	if baseURL == "" {
		t.Skip("Skipping e2e tests; set SEGURO_API_URL to a running instance")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	resp, err := client.R().Get("/health")
	require.NoError(t, err, "API must be reachable")
	require.Equal(t, http.StatusOK, resp.StatusCode())

	return client
}

func TestE2EProdutoLifecycle(t *testing.T) {
	client := newAPIClient(t)

	var criado ProdutoResponse
	resp, err := client.R().
		SetBody(map[string]interface{}{
			"nome":             "Notebook E2E",
			"valor":            3500.00,
			"estoque_minimo":   1,
			"estoque_maximo":   10,
			"saldo_em_estoque": 5,
			"fornecedor":       "Acme",
			"possui_garantia":  true,
		}).
		SetResult(&criado).
		Post("/produto")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	require.NotEmpty(t, criado.ID)
	assert.Equal(t, "/produto/"+criado.ID, resp.Header().Get("Location"))

	var lido ProdutoResponse
	resp, err = client.R().SetResult(&lido).Get("/produto/" + criado.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "Notebook E2E", lido.Nome)

	resp, err = client.R().
		SetBody(map[string]interface{}{
			"nome":             "Notebook E2E v2",
			"valor":            3600.00,
			"estoque_minimo":   2,
			"estoque_maximo":   20,
			"saldo_em_estoque": 7,
			"fornecedor":       "Acme",
			"possui_garantia":  false,
		}).
		Put("/produto/" + criado.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().Delete("/produto/" + criado.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().Get("/produto/" + criado.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Empty(t, resp.Body())
}

func TestE2EVendaValidation(t *testing.T) {
	client := newAPIClient(t)

	// lista vazia é rejeitada antes de qualquer consulta
	resp, err := client.R().
		SetBody(map[string]interface{}{
			"valor_total": 20.00,
			"itens":       []interface{}{},
		}).
		Post("/venda")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Lista de itens vazia")

	// produto inexistente aparece na mensagem enumerada
	idFantasma := fmt.Sprintf("fantasma-%d", time.Now().UnixNano())
	resp, err = client.R().
		SetBody(map[string]interface{}{
			"valor_total": 20.00,
			"itens": []map[string]interface{}{
				{
					"id_produto":     idFantasma,
					"id_garantia":    "qualquer",
					"quantidade":     1,
					"valor_unitario": 10.00,
					"valor_total":    10.00,
				},
			},
		}).
		Post("/venda")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Produtos não cadastrados para os itens: "+idFantasma)
}

func TestE2EVendaLifecycle(t *testing.T) {
	client := newAPIClient(t)

	var produto ProdutoResponse
	resp, err := client.R().
		SetBody(map[string]interface{}{
			"nome":             "Produto Venda E2E",
			"valor":            10.00,
			"estoque_minimo":   0,
			"estoque_maximo":   10,
			"saldo_em_estoque": 10,
			"fornecedor":       "Acme",
			"possui_garantia":  true,
		}).
		SetResult(&produto).
		Post("/produto")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	var venda VendaResponse
	resp, err = client.R().
		SetBody(map[string]interface{}{
			"valor_total": 20.00,
			"itens": []map[string]interface{}{
				{
					"id_produto":     produto.ID,
					"id_garantia":    "garantia-e2e",
					"quantidade":     2,
					"valor_unitario": 10.00,
					"valor_total":    20.00,
				},
			},
		}).
		SetResult(&venda).
		Post("/venda")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	require.NotEmpty(t, venda.ID)
	require.Len(t, venda.Itens, 1)
	assert.Equal(t, "/venda/"+venda.ID, resp.Header().Get("Location"))

	// a atualização troca a coleção de itens por inteiro
	var atualizada VendaResponse
	resp, err = client.R().
		SetBody(map[string]interface{}{
			"valor_total": 30.00,
			"itens": []map[string]interface{}{
				{
					"id_produto":     produto.ID,
					"id_garantia":    "garantia-e2e",
					"quantidade":     3,
					"valor_unitario": 10.00,
					"valor_total":    30.00,
				},
			},
		}).
		SetResult(&atualizada).
		Put("/venda/" + venda.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, atualizada.Itens, 1)
	assert.NotEqual(t, venda.Itens[0].ID, atualizada.Itens[0].ID)

	resp, err = client.R().Delete("/venda/" + venda.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().Delete("/produto/" + produto.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}
