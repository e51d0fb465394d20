// Package normalisers implements the row normalisation engine.
//
// Normalisation runs two sequential passes over a batch of DatasetRow:
//
//   - Dedupe groups rows by system and canonical data point, clusters rows
//     whose timing windows overlap, and merges each cluster into its
//     preferred row.
//   - MarkConflicts groups the merged rows by canonical data point alone and
//     stamps a shared conflict-set identifier on every row of a group that
//     holds both favourable and unfavourable polarities.
//
// Both passes are pure: they copy their input, perform no I/O and produce
// the same output for any permutation of the same rows. Rows are expected
// to have passed DatasetRow.Validate beforehand.
//
// The passes are exposed to the rest of the application as named row
// processors through the postprocessors registry.
package normalisers
