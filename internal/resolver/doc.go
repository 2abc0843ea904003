// Package resolver maps a logical table name to its active write-ahead
// partition.
//
// Partitioned tables keep a sequence row in a tracking table (by default
// public.geomesa_wa_seq) holding the number of the partition currently
// accepting writes. The resolver reads that row and formats the physical
// partition name, e.g. sequence value 7 for table "trips" resolves to
// "trips_wa_007".
package resolver
