// Package group fills missing float values partition by partition.
//
// A frame is split on the distinct values of one key column (PartitionBy),
// each partition is imputed on its own statistics (impute.Impute), and the
// results are stitched back together (Recombine). Fill composes the three.
package group
