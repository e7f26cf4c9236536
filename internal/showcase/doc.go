// Package showcase defines the domain types, stage interfaces, and error
// taxonomy shared by the fetch, summarize, illustrate, and publish stages of
// the showcase publisher.
package showcase
