// Package security turns a signing configuration into a flat report that is
// safe to print: it carries secret lengths, never secret bytes.
package security
