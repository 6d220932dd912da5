// Package embeddings generates text embeddings with local ONNX models via
// FastEmbed. No network call is made at query time; models are downloaded
// once into the cache directory.
//
// FastEmbed needs CGO for the ONNX runtime. Builds without CGO get a stub
// provider that fails at construction with ErrFastEmbedNotAvailable.
package embeddings
