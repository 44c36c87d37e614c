// Package converter wraps a pretrained transformer encoder into a sentence-embedding
// model bundle by attaching a pooling configuration.
//
// The converter never runs the encoder: it resolves the pooling modes, fetches the
// encoder files (from a local directory or from the hub), lays them out next to the
// pooling and module configuration files, and stamps the bundle with the converter
// version. The resulting directory follows the sentence-transformers on-disk layout.
package converter
