// Package diff computes the changelog between a base and a modified snapshot.
//
// A scan runs three independent differs and merges their output:
//
//   - AssetScanner walks each category folder and classifies files by presence
//     and modification time. File contents are never compared.
//   - MapDiffEngine compares map files by modification time, then reads the
//     changed payloads to report music triggers and warps between maps.
//   - The record differ compares the five positional database lists
//     (common events, tilesets, switches, variables, animations) entry by entry.
//
// Generator.Scan ties them together and stamps the result with the developer
// header fields.
package diff
