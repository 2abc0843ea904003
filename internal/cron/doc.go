// Package cron adjusts pg_cron job schedules around a bulk load.
//
// Partitioned tables typically carry two pg_cron jobs: one that rolls
// the write-ahead partition forward and one that runs partition
// maintenance. Operators slow these down during a long batch load and
// speed them back up afterwards. Failures here are reported to the
// caller but are not fatal to a load.
package cron
