// Package token defines the lexical vocabulary of TJLang: token kinds, the
// reserved-word table, and source positions used to anchor diagnostics.
package token
