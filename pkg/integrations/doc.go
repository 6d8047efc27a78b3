// Package integrations provides shared infrastructure for external API
// clients: a caching HTTP client with retry logic, common error types, and
// repository URL extraction helpers.
//
// Concrete clients live in subpackages (currently [github]) and embed
// [Client] for caching and request plumbing.
package integrations
