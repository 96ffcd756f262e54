// Package submit materializes a changelog as a self-contained submission package.
//
// A package holds the modified snapshot's database and map-tree, every Added or
// Modified map and asset, the changelog text, and a submission.toml manifest.
// Removed entries are only listed in the changelog. A package may additionally be
// compressed into a single archive next to its directory.
package submit
