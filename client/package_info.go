// Package client sends queries to the server under test and decodes its answers into the
// structures of package servicedef, from either of the server's two response formats.
package client
