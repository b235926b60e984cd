// Package validator faz as checagens de fronteira do HTML antes da extração:
// tamanho, formato de documento e sinais de bloqueio da casa de apostas.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinHTMLSize = 100
	MaxHTMLSize = 10_000_000
)

// blockIndicators são trechos típicos de páginas de bloqueio/desafio anti-bot
var blockIndicators = []string{
	"access denied",
	"security check",
	"captcha",
	"rate limit",
	"too many requests",
	"attention required",
	"checking your browser",
}

// ValidationError indica HTML vazio, pequeno/grande demais ou sem cara de documento.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid html: " + e.Reason }

// BlockedError indica que o site devolveu uma página de bloqueio no lugar do conteúdo.
type BlockedError struct {
	Indicator string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("access blocked by site (found %q)", e.Indicator)
}

// Validate aplica as regras na ordem: tamanho, formato e bloqueio.
func Validate(html string) error {
	switch n := len(html); {
	case n == 0:
		return &ValidationError{Reason: "empty html"}
	case n < MinHTMLSize:
		return &ValidationError{Reason: fmt.Sprintf("html too small (%d chars, minimum %d)", n, MinHTMLSize)}
	case n > MaxHTMLSize:
		return &ValidationError{Reason: fmt.Sprintf("html too large (%d chars, maximum %d)", n, MaxHTMLSize)}
	}

	lower := strings.ToLower(html)
	if !strings.Contains(lower, "<html") {
		return &ValidationError{Reason: "missing <html> root element"}
	}

	for _, ind := range blockIndicators {
		if strings.Contains(lower, ind) {
			return &BlockedError{Indicator: ind}
		}
	}
	return nil
}

// IsBlocked reporta se err (ou algo que ele embrulha) é um BlockedError
func IsBlocked(err error) bool {
	var b *BlockedError
	return errors.As(err, &b)
}

// IsInvalid reporta se err (ou algo que ele embrulha) é um ValidationError
func IsInvalid(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
