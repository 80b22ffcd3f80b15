package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSkip = 0
	defaultTake = 50
)

// ProdutoUseCaseInterface define a interface para o use case de produtos
type ProdutoUseCaseInterface interface {
	CreateProduto(ctx context.Context, req ProdutoRequest) (*Produto, error)
	ListProdutos(ctx context.Context, skip, take int) ([]Produto, error)
	GetProduto(ctx context.Context, id string) (*Produto, error)
	UpdateProduto(ctx context.Context, id string, req ProdutoRequest) (*Produto, error)
	DeleteProduto(ctx context.Context, id string) error
}

// GarantiaUseCaseInterface define a interface para o use case de garantias
type GarantiaUseCaseInterface interface {
	CreateGarantia(ctx context.Context, req GarantiaCreateRequest) (*Garantia, error)
	ListGarantias(ctx context.Context, skip, take int) ([]Garantia, error)
	GetGarantia(ctx context.Context, id string) (*Garantia, error)
	UpdateGarantia(ctx context.Context, id string, req GarantiaUpdateRequest) (*Garantia, error)
	DeleteGarantia(ctx context.Context, id string) error
}

// VendaUseCaseInterface define a interface para o use case de vendas
type VendaUseCaseInterface interface {
	CreateVenda(ctx context.Context, req VendaRequest) (*Venda, error)
	ListVendas(ctx context.Context, skip, take int) ([]Venda, error)
	GetVenda(ctx context.Context, id string) (*Venda, error)
	UpdateVenda(ctx context.Context, id string, req VendaRequest) (*Venda, error)
	DeleteVenda(ctx context.Context, id string) error
}

// respondBindingError devolve 400 com mapa campo -> mensagem quando o erro
// veio do validador, ou com a mensagem crua para JSON malformado
func respondBindingError(c *gin.Context, err error) {
	if fields, ok := fieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseSkipTake lê skip e take da query string com os defaults do contrato.
// Valores negativos ou não numéricos são rejeitados com 400.
func parseSkipTake(c *gin.Context) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", strconv.Itoa(defaultSkip)))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip deve ser um inteiro não negativo"})
		return 0, 0, false
	}

	take, err := strconv.Atoi(c.DefaultQuery("take", strconv.Itoa(defaultTake)))
	if err != nil || take < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "take deve ser um inteiro não negativo"})
		return 0, 0, false
	}

	return skip, take, true
}

// ProdutoHandler contém os handlers HTTP de produtos
type ProdutoHandler struct {
	useCase ProdutoUseCaseInterface
}

// NewProdutoHandler cria uma nova instância de ProdutoHandler
func NewProdutoHandler(useCase ProdutoUseCaseInterface) *ProdutoHandler {
	return &ProdutoHandler{useCase: useCase}
}

// CreateProduto cria um novo produto
func (h *ProdutoHandler) CreateProduto(c *gin.Context) {
	var req ProdutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	produto, err := h.useCase.CreateProduto(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Location", "/produto/"+produto.ID)
	c.JSON(http.StatusCreated, toProdutoResponse(produto))
}

// ListProdutos retorna os produtos paginados por skip/take
func (h *ProdutoHandler) ListProdutos(c *gin.Context) {
	skip, take, ok := parseSkipTake(c)
	if !ok {
		return
	}

	produtos, err := h.useCase.ListProdutos(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resposta := make([]ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		resposta = append(resposta, toProdutoResponse(&produtos[i]))
	}
	c.JSON(http.StatusOK, resposta)
}

// GetProdutoByID busca um produto pelo ID
func (h *ProdutoHandler) GetProdutoByID(c *gin.Context) {
	produto, err := h.useCase.GetProduto(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProdutoNaoEncontrado) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProdutoResponse(produto))
}

// UpdateProduto sobrescreve todos os campos de um produto existente
func (h *ProdutoHandler) UpdateProduto(c *gin.Context) {
	var req ProdutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	produto, err := h.useCase.UpdateProduto(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ErrProdutoNaoEncontrado) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProdutoResponse(produto))
}

// DeleteProduto remove um produto pelo ID
func (h *ProdutoHandler) DeleteProduto(c *gin.Context) {
	err := h.useCase.DeleteProduto(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProdutoNaoEncontrado) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GarantiaHandler contém os handlers HTTP de garantias
type GarantiaHandler struct {
	useCase GarantiaUseCaseInterface
}

// NewGarantiaHandler cria uma nova instância de GarantiaHandler
func NewGarantiaHandler(useCase GarantiaUseCaseInterface) *GarantiaHandler {
	return &GarantiaHandler{useCase: useCase}
}

// CreateGarantia cria uma nova garantia
func (h *GarantiaHandler) CreateGarantia(c *gin.Context) {
	var req GarantiaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	garantia, err := h.useCase.CreateGarantia(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Location", "/garantia/"+garantia.ID)
	c.JSON(http.StatusCreated, toGarantiaResponse(garantia))
}

// ListGarantias retorna as garantias paginadas por skip/take
func (h *GarantiaHandler) ListGarantias(c *gin.Context) {
	skip, take, ok := parseSkipTake(c)
	if !ok {
		return
	}

	garantias, err := h.useCase.ListGarantias(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resposta := make([]GarantiaResponse, 0, len(garantias))
	for i := range garantias {
		resposta = append(resposta, toGarantiaResponse(&garantias[i]))
	}
	c.JSON(http.StatusOK, resposta)
}

// GetGarantiaByID busca uma garantia pelo ID
func (h *GarantiaHandler) GetGarantiaByID(c *gin.Context) {
	garantia, err := h.useCase.GetGarantia(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrGarantiaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toGarantiaResponse(garantia))
}

// UpdateGarantia sobrescreve todos os campos de uma garantia existente
func (h *GarantiaHandler) UpdateGarantia(c *gin.Context) {
	var req GarantiaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	garantia, err := h.useCase.UpdateGarantia(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ErrGarantiaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toGarantiaResponse(garantia))
}

// DeleteGarantia remove uma garantia pelo ID
func (h *GarantiaHandler) DeleteGarantia(c *gin.Context) {
	err := h.useCase.DeleteGarantia(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrGarantiaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// VendaHandler contém os handlers HTTP de vendas
type VendaHandler struct {
	useCase VendaUseCaseInterface
	tracer  trace.Tracer
}

// NewVendaHandler cria uma nova instância de VendaHandler
func NewVendaHandler(useCase VendaUseCaseInterface, tracer trace.Tracer) *VendaHandler {
	return &VendaHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// CreateVenda valida e cria uma venda com seus itens
func (h *VendaHandler) CreateVenda(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_venda")
	defer span.End()

	var req VendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondBindingError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("itens", len(req.Itens)))

	venda, err := h.useCase.CreateVenda(ctx, req)
	if err != nil {
		span.RecordError(err)
		if isVendaValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("venda_id", venda.ID))

	c.Header("Location", "/venda/"+venda.ID)
	c.JSON(http.StatusCreated, toVendaResponse(venda))
}

// ListVendas retorna as vendas paginadas por skip/take, com seus itens
func (h *VendaHandler) ListVendas(c *gin.Context) {
	skip, take, ok := parseSkipTake(c)
	if !ok {
		return
	}

	vendas, err := h.useCase.ListVendas(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resposta := make([]VendaResponse, 0, len(vendas))
	for i := range vendas {
		resposta = append(resposta, toVendaResponse(&vendas[i]))
	}
	c.JSON(http.StatusOK, resposta)
}

// GetVendaByID busca uma venda pelo ID
func (h *VendaHandler) GetVendaByID(c *gin.Context) {
	venda, err := h.useCase.GetVenda(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrVendaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toVendaResponse(venda))
}

// UpdateVenda valida e substitui por inteiro os itens e o valor total de uma
// venda existente
func (h *VendaHandler) UpdateVenda(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_venda")
	defer span.End()

	var req VendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondBindingError(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("venda_id", c.Param("id")),
		attribute.Int("itens", len(req.Itens)),
	)

	venda, err := h.useCase.UpdateVenda(ctx, c.Param("id"), req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrVendaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		if isVendaValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toVendaResponse(venda))
}

// DeleteVenda remove uma venda e seus itens
func (h *VendaHandler) DeleteVenda(c *gin.Context) {
	err := h.useCase.DeleteVenda(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrVendaNaoEncontrada) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// HealthCheck verifica a saúde do serviço
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "seguro-api",
	})
}
