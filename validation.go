package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Limites de prazo das garantias. Os DTOs originais divergem entre si (a
// criação fala em anos, a atualização em dias) e a divergência é mantida
// até que o produto decida qual limite vale.
const (
	GarantiaPrazoMinimo            = 1
	GarantiaPrazoMaximoCriacao     = 21
	GarantiaPrazoMaximoAtualizacao = 365
)

// setupValidation configura o validador usado pelo binding do gin:
// campos decimais validados como números, nomes de campo vindos da tag json
// e as validações de prazo lendo os limites nomeados.
func setupValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not *validator.Validate")
	}

	v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("prazo_criacao", prazoCriacaoValido); err != nil {
		return err
	}
	if err := v.RegisterValidation("prazo_atualizacao", prazoAtualizacaoValido); err != nil {
		return err
	}

	return nil
}

func decimalAsFloat(field reflect.Value) interface{} {
	if value, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := value.Float64()
		return f
	}
	return nil
}

func prazoCriacaoValido(fl validator.FieldLevel) bool {
	prazo := fl.Field().Int()
	return prazo >= GarantiaPrazoMinimo && prazo <= GarantiaPrazoMaximoCriacao
}

func prazoAtualizacaoValido(fl validator.FieldLevel) bool {
	prazo := fl.Field().Int()
	return prazo >= GarantiaPrazoMinimo && prazo <= GarantiaPrazoMaximoAtualizacao
}

// fieldErrors traduz um erro de binding em um mapa campo -> mensagem.
// Retorna false quando o erro não veio do validador (ex.: JSON malformado).
func fieldErrors(err error) (map[string]string, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldKey(fieldError)] = fieldMessage(fieldError)
	}
	return fields, true
}

// fieldKey remove o nome do struct raiz do namespace, preservando o restante
// do caminho do campo.
func fieldKey(fieldError validator.FieldError) string {
	namespace := fieldError.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return fieldError.Field()
}

func fieldMessage(fieldError validator.FieldError) string {
	switch fieldError.Field() {
	case "nome":
		if fieldError.Tag() == "max" {
			return "O nome pode ter no máximo 100 caracteres."
		}
		return "O nome é obrigatório."
	case "valor":
		if fieldError.Tag() == "gt" {
			return "O valor deve ser maior que zero."
		}
		return "O valor é obrigatório."
	case "fornecedor":
		if fieldError.Tag() == "max" {
			return "O nome do fornecedor pode ter no máximo 50 caracteres."
		}
		return "O fornecedor é obrigatório."
	case "estoque_minimo":
		return "O estoque mínimo não pode ser negativo."
	case "estoque_maximo":
		if fieldError.Tag() == "gtefield" {
			return "O estoque máximo não pode ser menor que o estoque mínimo."
		}
		return "O estoque máximo não pode ser negativo."
	case "saldo_em_estoque":
		return "O saldo em estoque não pode ser negativo."
	case "prazo":
		switch fieldError.Tag() {
		case "prazo_criacao":
			return fmt.Sprintf("Prazo deve estar entre %d e %d anos.", GarantiaPrazoMinimo, GarantiaPrazoMaximoCriacao)
		case "prazo_atualizacao":
			return fmt.Sprintf("Prazo deve estar entre %d e %d dias.", GarantiaPrazoMinimo, GarantiaPrazoMaximoAtualizacao)
		}
		return "O prazo é obrigatório."
	}
	return fieldError.Error()
}
