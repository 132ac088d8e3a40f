// Package parser turns a textual signature declaration like
//
//	greet(name, excited: bool = false, /, times: int = 1, *rest, **opts)
//
// into a classified Signature. Classification is positional: everything
// before '/' is positional-only, everything before the first '*' marker is
// positional-or-keyword, '*name' is the variadic positional collector,
// parameters after '*' (bare or named) are keyword-only, and '**name' is
// the variadic keyword collector.
package parser

import (
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/lexer"
	"github.com/funvibe/sigbind/internal/signature"
	"github.com/funvibe/sigbind/internal/token"
)

type phase int

const (
	phasePositional phase = iota // before any '*' marker
	phaseKeywordOnly             // after '*' or '*args'
	phaseDone                    // after '**kwargs'
)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is the package entry point for one declaration.
func Parse(decl string) (*signature.Signature, error) {
	p := New(lexer.New(decl))
	sig := p.parseSignature()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return sig, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001, p.peekToken,
		"expected "+string(t), p.peekToken.Lexeme,
	))
	return false
}

func (p *Parser) parseSignature() *signature.Signature {
	if !p.curTokenIs(token.IDENT) {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken,
			"expected signature name", p.curToken.Lexeme,
		))
		return nil
	}
	name := p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken() // move past (

	var params []*signature.Parameter
	ph := phasePositional
	seenSlash := false
	sawKeywordOnly := false
	bareStar := token.Token{}

	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		switch {
		case p.curTokenIs(token.COMMA):
			p.nextToken()
			continue

		case p.curTokenIs(token.SLASH):
			// Positional-only marker: reclassifies everything before it.
			if seenSlash || ph != phasePositional {
				p.errors = append(p.errors, diagnostics.NewError(
					diagnostics.ErrP007, p.curToken,
					"misplaced '/' marker",
				))
				return nil
			}
			if len(params) == 0 {
				p.errors = append(p.errors, diagnostics.NewError(
					diagnostics.ErrP007, p.curToken,
					"'/' requires at least one preceding parameter",
				))
				return nil
			}
			seenSlash = true
			for _, prev := range params {
				prev.Kind = signature.PositionalOnly
			}
			p.nextToken()

		case p.curTokenIs(token.POWER):
			// **kwargs
			if ph == phaseDone {
				p.errors = append(p.errors, diagnostics.NewError(
					diagnostics.ErrP003, p.curToken,
					"second '**' collector",
				))
				return nil
			}
			param := p.parseParameter(signature.VarKeyword)
			if param == nil {
				return nil
			}
			params = append(params, param)
			ph = phaseDone

		case p.curTokenIs(token.ASTERISK):
			if ph != phasePositional {
				p.errors = append(p.errors, diagnostics.NewError(
					diagnostics.ErrP003, p.curToken,
					"second '*' marker",
				))
				return nil
			}
			if p.peekTokenIs(token.IDENT) {
				// *args
				param := p.parseParameter(signature.VarPositional)
				if param == nil {
					return nil
				}
				params = append(params, param)
			} else {
				// Bare star: only switches classification.
				bareStar = p.curToken
				p.nextToken()
			}
			ph = phaseKeywordOnly

		case p.curTokenIs(token.IDENT):
			kind := signature.PositionalOrKeyword
			if ph == phaseKeywordOnly {
				kind = signature.KeywordOnly
				sawKeywordOnly = true
			} else if ph == phaseDone {
				p.errors = append(p.errors, diagnostics.NewError(
					diagnostics.ErrP004, p.curToken,
					"parameter after '**' collector", p.curToken.Lexeme,
				))
				return nil
			}
			param := p.parseParameter(kind)
			if param == nil {
				return nil
			}
			params = append(params, param)

		case p.curTokenIs(token.ILLEGAL):
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrL001, p.curToken,
				"illegal character in declaration", p.curToken.Lexeme,
			))
			return nil

		default:
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP001, p.curToken,
				"unexpected token in parameter list", p.curToken.Lexeme,
			))
			return nil
		}
	}

	if !p.curTokenIs(token.RPAREN) {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken,
			"unterminated parameter list",
		))
		return nil
	}

	// A bare star must introduce at least one keyword-only parameter.
	if bareStar.Type == token.ASTERISK && !sawKeywordOnly {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP008, bareStar,
			"bare '*' without keyword-only parameters",
		))
		return nil
	}

	sig, err := signature.New(name, params...)
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			p.errors = append(p.errors, de)
		} else {
			p.errors = append(p.errors, diagnostics.Newf(diagnostics.ErrP001, "%v", err))
		}
		return nil
	}
	return sig
}

// parseParameter parses one parameter at curToken. For the variadic kinds,
// curToken is the marker and the name follows; the marker is consumed here.
func (p *Parser) parseParameter(kind signature.Kind) *signature.Parameter {
	if kind.Variadic() {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
	}

	param := &signature.Parameter{Name: p.curToken.Lexeme, Kind: kind}
	p.nextToken()

	// Optional annotation: ': int'
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP001, p.curToken,
				"expected annotation name", p.curToken.Lexeme,
			))
			return nil
		}
		param.Annotation = p.curToken.Lexeme
		p.nextToken()
	}

	// Optional default: '= literal'
	if p.curTokenIs(token.ASSIGN) {
		if kind.Variadic() {
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP006, p.curToken,
				"variadic parameter cannot have a default",
			))
			return nil
		}
		p.nextToken()
		val, ok := p.parseLiteral()
		if !ok {
			return nil
		}
		param.Default = val
		param.HasDefault = true
		p.nextToken()
	}

	return param
}

// parseLiteral reads a default-value literal at curToken.
func (p *Parser) parseLiteral() (interface{}, bool) {
	switch p.curToken.Type {
	case token.INT, token.FLOAT, token.STRING:
		return p.curToken.Literal, true
	case token.TRUE:
		return true, true
	case token.FALSE:
		return false, true
	case token.NIL:
		return nil, true
	default:
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken,
			"expected literal default value", p.curToken.Lexeme,
		))
		return nil, false
	}
}
