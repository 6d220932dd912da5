// Package knowledge loads the knowledge base: a directory of .txt documents
// whose basenames double as the access-control document keys.
package knowledge
