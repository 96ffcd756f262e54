// Package transfer replays a changelog onto a destination snapshot.
//
// Asset and map files are copied or deleted one at a time; a failure on one
// file is recorded in the Result and the batch continues. Database records and
// map-tree entries are applied in memory and written back as whole files at
// the end, so a failed final write loses every record change for that file
// while the already copied files stay in place.
//
// Record positions are validated before they are touched: the origin record
// at position id-1 must carry id, otherwise the item is skipped with a
// *model.AlignmentError.
package transfer
