// Package ktx implements the in-memory Container model for the KTX and
// KTX2 texture container formats (spec §3 "Container", §4.2, §6): header
// parsing and emission, an insertion-ordered key/value property bag, a
// mip level table with per-level payload access, and optional KTX2
// supercompression via compress/zlib.
//
// A Container is built one of two ways: OpenForRead parses an existing
// file's bytes; Build assembles one from a Header, Props, and per-level
// payloads for writing. Either way the result is immutable — levels and
// props are fixed at construction — and WriteTo serializes it back to
// either container variant, independent of which variant it was read
// from.
package ktx
