// Package servicedef defines the canonical form of the server's responses, which both the JSON and
// the binary decoders produce, and builds the request paths of the queries the harness sends.
package servicedef
