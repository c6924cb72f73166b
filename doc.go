// Package huffpack implements a lossless document compressor built on
// Huffman codes.
//
// Compression counts symbol frequencies, builds a Huffman tree whose ties are
// broken by first occurrence, derives a prefix-free CodeBook from the tree,
// and packs the coded symbols MSB-first behind a one-byte pad count.  The
// CodeBook travels with the packed bits inside an Artifact, which can be
// persisted with WriteTo and read back with ReadFrom.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
//     D. A. Huffman, "A Method for the Construction of Minimum-Redundancy
//     Codes", Proceedings of the IRE, 1952.
//
package huffpack
